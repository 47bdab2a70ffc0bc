package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regelwerk/backend/pkg/constants"
	apperrors "github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
)

func newTemplateFixture(fields ...*models.Field) (*TemplateService, *memChangeLogStore) {
	changeLogStore := newMemChangeLogStore()
	svc := NewTemplateService(
		newMemTemplateStore(),
		newMemFieldStore(fields...),
		newMemTextStore(),
		NewChangeLogService(changeLogStore),
	)
	return svc, changeLogStore
}

func TestTemplateCreatePrunesUnknownFieldIDs(t *testing.T) {
	svc, _ := newTemplateFixture(
		&models.Field{ID: "f1", Type: constants.FieldTypeText},
		&models.Field{ID: "f3", Type: constants.FieldTypeText},
	)

	view, err := svc.Create(context.Background(), TemplateInput{
		Name:     models.MultiLanguageText{"de": "Antrag"},
		FieldIDs: []string{"f1", "ghost", "f3"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"f1", "f3"}, view.FieldIDs, "unknown ids dropped, order kept")
	assert.Equal(t, "Antrag", view.Name["de"])
}

func TestTemplateUpdatePatchesOnlyPresentParts(t *testing.T) {
	svc, _ := newTemplateFixture(&models.Field{ID: "f1", Type: constants.FieldTypeText})

	created, err := svc.Create(context.Background(), TemplateInput{
		Name:        models.MultiLanguageText{"de": "Antrag", "fr": "Demande"},
		Description: models.MultiLanguageText{"de": "Beschreibung"},
		FieldIDs:    []string{"f1"},
	}, nil)
	require.NoError(t, err)

	// Update only the German name; fields and description stay
	updated, err := svc.Update(context.Background(), created.ID, TemplateInput{
		Name: models.MultiLanguageText{"de": "Gesuch"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Gesuch", updated.Name["de"])
	assert.Equal(t, "Demande", updated.Name["fr"])
	assert.Equal(t, "Beschreibung", updated.Description["de"])
	assert.Equal(t, []string{"f1"}, updated.FieldIDs)
}

func TestTemplateUpdateReplacesFieldListWithPruning(t *testing.T) {
	svc, _ := newTemplateFixture(
		&models.Field{ID: "f1", Type: constants.FieldTypeText},
		&models.Field{ID: "f2", Type: constants.FieldTypeText},
	)

	created, err := svc.Create(context.Background(), TemplateInput{FieldIDs: []string{"f1"}}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, TemplateInput{
		FieldIDs: []string{"f2", "ghost", "f1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"f2", "f1"}, updated.FieldIDs)
}

func TestTemplateDeleteRemovesTexts(t *testing.T) {
	texts := newMemTextStore()
	svc := NewTemplateService(newMemTemplateStore(), newMemFieldStore(), texts,
		NewChangeLogService(newMemChangeLogStore()))

	created, err := svc.Create(context.Background(), TemplateInput{
		Name: models.MultiLanguageText{"de": "Antrag"},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, nil))

	_, err = svc.Get(context.Background(), created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	name, err := texts.GetAll(context.Background(), constants.TextSlotTemplateName, created.ID)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestTemplateCRUDWritesChangeLog(t *testing.T) {
	svc, changeLogStore := newTemplateFixture()
	user := &models.UserSession{ID: "u1", Name: "Admin", Role: constants.RoleAdmin}

	created, err := svc.Create(context.Background(), TemplateInput{
		Name: models.MultiLanguageText{"de": "Antrag"},
	}, user)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), created.ID, user))

	entries, err := changeLogStore.ListForEntity(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, constants.ActionDeleted, entries[0].Action)
	assert.Equal(t, constants.ActionCreated, entries[1].Action)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "Admin", entries[0].UserName)
}

func TestTemplateExportKeepsFieldOrder(t *testing.T) {
	svc, _ := newTemplateFixture(
		&models.Field{ID: "f1", Type: constants.FieldTypeText},
		&models.Field{ID: "f2", Type: constants.FieldTypeSelect},
	)

	created, err := svc.Create(context.Background(), TemplateInput{
		FieldIDs: []string{"f2", "f1"},
	}, nil)
	require.NoError(t, err)

	export, err := svc.Export(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, export.Fields, 2)
	assert.Equal(t, "f2", export.Fields[0].ID)
	assert.Equal(t, "f1", export.Fields[1].ID)
}
