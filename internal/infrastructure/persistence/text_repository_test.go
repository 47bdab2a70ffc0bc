package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regelwerk/backend/pkg/models"
)

func TestTextRepositoryGetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"language_code", "text_value"}).
		AddRow("de", "Vorname").
		AddRow("fr", "Prénom")
	mock.ExpectQuery("SELECT language_code, text_value FROM multilanguage_texts").
		WithArgs("field_name", "field-1").
		WillReturnRows(rows)

	repo := NewTextRepository(db)
	texts, err := repo.GetAll(context.Background(), "field_name", "field-1")
	require.NoError(t, err)
	assert.Equal(t, models.MultiLanguageText{"de": "Vorname", "fr": "Prénom"}, texts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTextRepositorySetAllSkipsEmptyValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM multilanguage_texts").
		WithArgs("template_name", "tmpl-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO multilanguage_texts").
		WithArgs("template_name", "tmpl-1", "de", "Antrag").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewTextRepository(db)
	err = repo.SetAll(context.Background(), "template_name", "tmpl-1", models.MultiLanguageText{
		"de": "Antrag",
		"fr": "",
		"it": "   ",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTextRepositoryDeleteAllSpansSlots(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM multilanguage_texts WHERE entity_id = \\? AND entity_type IN").
		WithArgs("tmpl-1", "template_name", "template_description").
		WillReturnResult(sqlmock.NewResult(0, 6))

	repo := NewTextRepository(db)
	err = repo.DeleteAll(context.Background(), "tmpl-1", "template_name", "template_description")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
