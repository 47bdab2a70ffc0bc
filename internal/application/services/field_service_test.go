package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regelwerk/backend/pkg/constants"
	apperrors "github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
)

func fieldTypePtr(t constants.FieldType) *constants.FieldType { return &t }

func newFieldFixture(fields ...*models.Field) *FieldService {
	return NewFieldService(
		newMemFieldStore(fields...),
		newMemTemplateStore(),
		newMemTextStore(),
		NewChangeLogService(newMemChangeLogStore()),
	)
}

func TestFieldCreateRequiresValidType(t *testing.T) {
	svc := newFieldFixture()

	_, err := svc.Create(context.Background(), FieldInput{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	bad := constants.FieldType("checkbox")
	_, err = svc.Create(context.Background(), FieldInput{Type: &bad}, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFieldCreateSelectNeedsOptions(t *testing.T) {
	svc := newFieldFixture()

	_, err := svc.Create(context.Background(), FieldInput{
		Type: fieldTypePtr(constants.FieldTypeSelect),
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), FieldInput{
		Type: fieldTypePtr(constants.FieldTypeSelect),
		Options: []models.SelectOption{
			{ID: "o1", Value: "a"},
			{ID: "o2", Value: "a"},
		},
	}, nil)
	require.Error(t, err, "duplicate option values rejected")
	assert.True(t, apperrors.IsValidation(err))
}

func TestFieldUpdateTypeImmutable(t *testing.T) {
	svc := newFieldFixture()

	created, err := svc.Create(context.Background(), FieldInput{
		Type: fieldTypePtr(constants.FieldTypeText),
	}, nil)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, FieldInput{
		Type: fieldTypePtr(constants.FieldTypeSelect),
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFieldCreateParsesValidationConfig(t *testing.T) {
	svc := newFieldFixture()

	created, err := svc.Create(context.Background(), FieldInput{
		Type:       fieldTypePtr(constants.FieldTypeText),
		Validation: json.RawMessage(`{"string":{"min_length":2,"max_length":10}}`),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, created.Validation.String)
	assert.Equal(t, 2, *created.Validation.String.MinLength)
	assert.Equal(t, 10, *created.Validation.String.MaxLength)
}

func TestFieldCreateRejectsMalformedValidationConfig(t *testing.T) {
	svc := newFieldFixture()

	_, err := svc.Create(context.Background(), FieldInput{
		Type:       fieldTypePtr(constants.FieldTypeText),
		Validation: json.RawMessage(`{"string":"not-an-object"}`),
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateValueRequired(t *testing.T) {
	svc := newFieldFixture(&models.Field{
		ID:          "f1",
		Type:        constants.FieldTypeText,
		Requirement: constants.RequirementRequired,
	})

	result, err := svc.ValidateValue(context.Background(), "f1", "")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "This field is required")

	result, err = svc.ValidateValue(context.Background(), "f1", "anything")
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateValueOptionalEmptyPasses(t *testing.T) {
	svc := newFieldFixture(&models.Field{
		ID:          "f1",
		Type:        constants.FieldTypeText,
		Requirement: constants.RequirementOptional,
	})

	result, err := svc.ValidateValue(context.Background(), "f1", nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateValueRadioSelect(t *testing.T) {
	svc := newFieldFixture(&models.Field{
		ID:         "f1",
		Type:       constants.FieldTypeSelect,
		SelectType: constants.SelectTypeRadio,
		Options: []models.SelectOption{
			{ID: "o1", Value: "de"},
			{ID: "o2", Value: "fr"},
		},
	})

	result, err := svc.ValidateValue(context.Background(), "f1", "de")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = svc.ValidateValue(context.Background(), "f1", "en")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Invalid selection: en")

	// Radio selects take a single value, never a list
	result, err = svc.ValidateValue(context.Background(), "f1", []interface{}{"de"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateValueMultipleSelect(t *testing.T) {
	svc := newFieldFixture(&models.Field{
		ID:         "f1",
		Type:       constants.FieldTypeSelect,
		SelectType: constants.SelectTypeMultiple,
		Options: []models.SelectOption{
			{ID: "o1", Value: "de"},
			{ID: "o2", Value: "fr"},
		},
	})

	result, err := svc.ValidateValue(context.Background(), "f1", []interface{}{"de", "fr"})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Scalars are rejected outright for multi-selects
	result, err = svc.ValidateValue(context.Background(), "f1", "de")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Multiple selection must be a list")

	// Every bad item is reported, not just the first
	result, err = svc.ValidateValue(context.Background(), "f1", []interface{}{"en", "it"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Invalid selection: en", "Invalid selection: it"}, result.Errors)
}

func TestValidateValueUnknownField(t *testing.T) {
	svc := newFieldFixture()

	_, err := svc.ValidateValue(context.Background(), "ghost", "x")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestValidationSchemaPerType(t *testing.T) {
	svc := newFieldFixture()

	schema, err := svc.ValidationSchema("text")
	require.NoError(t, err)
	assert.Contains(t, schema, "string")
	assert.Contains(t, schema, "number")
	assert.Contains(t, schema, "date")

	schema, err = svc.ValidationSchema("document")
	require.NoError(t, err)
	assert.Contains(t, schema, "file")

	_, err = svc.ValidationSchema("checkbox")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFieldDeleteDetachesFromTemplates(t *testing.T) {
	fieldStore := newMemFieldStore(&models.Field{ID: "f1", Type: constants.FieldTypeText})
	templateStore := newMemTemplateStore(&models.Template{ID: "t1", FieldIDs: []string{"f1", "f2"}})
	svc := NewFieldService(fieldStore, templateStore, newMemTextStore(),
		NewChangeLogService(newMemChangeLogStore()))

	require.NoError(t, svc.Delete(context.Background(), "f1", nil))

	tmpl, err := templateStore.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f2"}, tmpl.FieldIDs)

	_, err = svc.Get(context.Background(), "f1")
	assert.True(t, apperrors.IsNotFound(err))
}
