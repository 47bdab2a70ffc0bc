package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regelwerk/backend/pkg/models"
)

func fieldRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"id", "type", "visibility", "requirement", "validation",
		"select_type", "options", "document_mode", "document_constraints",
		"role_config", "customer_specific", "visible_for_customers",
		"dependencies", "created_at", "updated_at",
	})
}

func TestFieldRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := fieldRows(t).AddRow(
		"field-1", "text", "editable", "required",
		`{"string":{"max_length":50,"format":"email"}}`,
		nil, nil, nil, nil,
		`{"klient":{"visible":false}}`,
		false, nil,
		`[{"field_id":"field-0","operator":"equals","condition_value":"yes"}]`,
		now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM fields WHERE id = ?").
		WithArgs("field-1").
		WillReturnRows(rows)

	repo := NewFieldRepository(db)
	field, err := repo.GetByID(context.Background(), "field-1")
	require.NoError(t, err)
	require.NotNil(t, field)

	assert.Equal(t, "field-1", field.ID)
	require.NotNil(t, field.Validation.String)
	assert.Equal(t, 50, *field.Validation.String.MaxLength)
	assert.Equal(t, "email", *field.Validation.String.Format)

	require.Contains(t, field.RoleConfig, "klient")
	require.NotNil(t, field.RoleConfig["klient"].Visible)
	assert.False(t, *field.RoleConfig["klient"].Visible)

	require.Len(t, field.Dependencies, 1)
	assert.Equal(t, "field-0", field.Dependencies[0].FieldID)
	assert.Equal(t, "yes", field.Dependencies[0].ConditionValue)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldRepositoryGetByIDUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM fields WHERE id = ?").
		WithArgs("missing").
		WillReturnRows(fieldRows(t))

	repo := NewFieldRepository(db)
	field, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldRepositoryMalformedJSONColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := fieldRows(t).AddRow(
		"field-bad", "select", "visible", "optional", nil,
		"radio", `{not json`, nil, nil, nil, false, nil, nil, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM fields WHERE id = ?").
		WithArgs("field-bad").
		WillReturnRows(rows)

	repo := NewFieldRepository(db)
	field, err := repo.GetByID(context.Background(), "field-bad")
	require.NoError(t, err)
	require.NotNil(t, field)
	assert.Nil(t, field.Options, "malformed column should scan as empty, not fail the row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldRepositoryFilterExistingKeepsOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The DB may return ids in any order; the result must follow the input.
	rows := sqlmock.NewRows([]string{"id"}).AddRow("c").AddRow("a")
	mock.ExpectQuery("SELECT id FROM fields WHERE id IN").
		WithArgs("a", "b", "c").
		WillReturnRows(rows)

	repo := NewFieldRepository(db)
	kept, err := repo.FilterExisting(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, kept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM template_fields WHERE field_id = ?").
		WithArgs("field-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM fields WHERE id = ?").
		WithArgs("field-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewFieldRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "field-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldRepositoryInsertSerializesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	visible := false
	field := &models.Field{
		ID:          "field-1",
		Type:        "text",
		Visibility:  "editable",
		Requirement: "optional",
		RoleConfig: map[string]models.RoleOverride{
			"klient": {Visible: &visible},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO fields").
		WithArgs(
			"field-1", "text", "editable", "optional",
			nil,                               // zero validation config stays NULL
			nil, nil, nil, nil,
			`{"klient":{"visible":false}}`,
			false, nil, nil, now, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewFieldRepository(db)
	require.NoError(t, repo.Insert(context.Background(), field))
	assert.NoError(t, mock.ExpectationsWereMet())
}
