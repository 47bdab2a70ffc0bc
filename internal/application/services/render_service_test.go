package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regelwerk/backend/pkg/constants"
	apperrors "github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
)

func boolPtr(b bool) *bool { return &b }

func newRenderFixture(fields ...*models.Field) (*RenderService, *memTextStore, *models.Template) {
	fieldIDs := make([]string, len(fields))
	for i, f := range fields {
		fieldIDs[i] = f.ID
	}
	tmpl := &models.Template{
		ID:        "tmpl-1",
		FieldIDs:  fieldIDs,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	texts := newMemTextStore()
	svc := NewRenderService(newMemTemplateStore(tmpl), newMemFieldStore(fields...), texts)
	return svc, texts, tmpl
}

func TestRenderTemplateUnknownID(t *testing.T) {
	svc, _, _ := newRenderFixture()

	_, err := svc.RenderTemplate(context.Background(), "missing", RenderContext{Role: constants.RoleAdmin})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFilterByRoleHidesAndOverrides(t *testing.T) {
	hidden := &models.Field{
		ID:   "hidden",
		Type: constants.FieldTypeText,
		RoleConfig: map[string]models.RoleOverride{
			"klient": {Visible: boolPtr(false)},
		},
	}
	req := constants.RequirementRequired
	upgraded := &models.Field{
		ID:          "upgraded",
		Type:        constants.FieldTypeText,
		Requirement: constants.RequirementOptional,
		RoleConfig: map[string]models.RoleOverride{
			"klient": {Requirement: &req},
		},
	}
	plain := &models.Field{ID: "plain", Type: constants.FieldTypeText}

	result := FilterByRole([]*models.Field{hidden, upgraded, plain}, constants.RoleKlient)
	require.Len(t, result, 2)
	assert.Equal(t, "upgraded", result[0].ID)
	assert.Equal(t, constants.RequirementRequired, result[0].Requirement)
	assert.Equal(t, "plain", result[1].ID)

	// The stored definition must keep its original requirement
	assert.Equal(t, constants.RequirementOptional, upgraded.Requirement)
}

func TestFilterByRoleIsIdempotent(t *testing.T) {
	vis := constants.VisibilityVisible
	field := &models.Field{
		ID:         "f1",
		Type:       constants.FieldTypeText,
		Visibility: constants.VisibilityEditable,
		RoleConfig: map[string]models.RoleOverride{
			"anmelder": {Visibility: &vis},
		},
	}

	once := FilterByRole([]*models.Field{field}, constants.RoleAnmelder)
	twice := FilterByRole(once, constants.RoleAnmelder)

	require.Len(t, twice, 1)
	assert.Equal(t, once[0].Visibility, twice[0].Visibility)
	assert.Equal(t, once[0].Requirement, twice[0].Requirement)
}

func TestFilterByCustomer(t *testing.T) {
	shared := &models.Field{ID: "shared", Type: constants.FieldTypeText}
	assigned := &models.Field{
		ID:                  "assigned",
		Type:                constants.FieldTypeText,
		CustomerSpecific:    true,
		VisibleForCustomers: []string{"cust-1", "cust-2"},
	}
	orphan := &models.Field{
		ID:               "orphan",
		Type:             constants.FieldTypeText,
		CustomerSpecific: true,
	}
	blankAssignment := &models.Field{
		ID:                  "blank-assignment",
		Type:                constants.FieldTypeText,
		CustomerSpecific:    true,
		VisibleForCustomers: []string{""},
	}

	all := []*models.Field{shared, assigned, orphan, blankAssignment}

	result := FilterByCustomer(all, "cust-1")
	require.Len(t, result, 2)
	assert.Equal(t, "shared", result[0].ID)
	assert.Equal(t, "assigned", result[1].ID)

	// No customer context: only non-specific fields survive, even when
	// an assignment list carries an empty entry
	result = FilterByCustomer(all, "")
	require.Len(t, result, 1)
	assert.Equal(t, "shared", result[0].ID)
}

func TestRenderTemplateDependencyPipeline(t *testing.T) {
	fieldA := &models.Field{ID: "field-a", Type: constants.FieldTypeSelect,
		SelectType: constants.SelectTypeRadio,
		Options: []models.SelectOption{
			{ID: "o1", Value: "yes"},
			{ID: "o2", Value: "no"},
		},
	}
	fieldB := &models.Field{
		ID:   "field-b",
		Type: constants.FieldTypeText,
		Dependencies: []models.Condition{
			{FieldID: "field-a", Operator: "equals", ConditionValue: "yes"},
		},
	}

	svc, texts, tmpl := newRenderFixture(fieldA, fieldB)
	require.NoError(t, texts.SetAll(context.Background(), constants.TextSlotFieldName, "field-b",
		models.MultiLanguageText{"de": "Details"}))

	// No values submitted yet: the dependent field stays hidden
	rendered, err := svc.RenderTemplate(context.Background(), tmpl.ID, RenderContext{
		Role:        constants.RoleAnmelder,
		FieldValues: map[string]interface{}{},
	})
	require.NoError(t, err)
	require.Len(t, rendered.Fields, 1)
	assert.Equal(t, "field-a", rendered.Fields[0].ID)

	// Dependency not satisfied: only field-a renders
	rendered, err = svc.RenderTemplate(context.Background(), tmpl.ID, RenderContext{
		Role:        constants.RoleAnmelder,
		FieldValues: map[string]interface{}{"field-a": "no"},
	})
	require.NoError(t, err)
	require.Len(t, rendered.Fields, 1)
	assert.Equal(t, "field-a", rendered.Fields[0].ID)

	// Satisfied: both render, in template order, with localized names
	rendered, err = svc.RenderTemplate(context.Background(), tmpl.ID, RenderContext{
		Role:        constants.RoleAnmelder,
		FieldValues: map[string]interface{}{"field-a": "yes"},
	})
	require.NoError(t, err)
	require.Len(t, rendered.Fields, 2)
	assert.Equal(t, "field-a", rendered.Fields[0].ID)
	assert.Equal(t, "field-b", rendered.Fields[1].ID)
	assert.Equal(t, "Details", rendered.Fields[1].Name["de"])
}

func TestSimulateReportsFilterStage(t *testing.T) {
	roleHidden := &models.Field{
		ID:   "role-hidden",
		Type: constants.FieldTypeText,
		RoleConfig: map[string]models.RoleOverride{
			"klient": {Visible: boolPtr(false)},
		},
	}
	custHidden := &models.Field{
		ID:               "cust-hidden",
		Type:             constants.FieldTypeText,
		CustomerSpecific: true,
	}
	depHidden := &models.Field{
		ID:   "dep-hidden",
		Type: constants.FieldTypeText,
		Dependencies: []models.Condition{
			{FieldID: "other", ConditionValue: "x"},
		},
	}
	visible := &models.Field{ID: "visible", Type: constants.FieldTypeText}

	svc, _, tmpl := newRenderFixture(roleHidden, custHidden, depHidden, visible)

	steps, err := svc.Simulate(context.Background(), tmpl.ID, RenderContext{Role: constants.RoleKlient})
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.True(t, steps[0].HiddenByRole)
	assert.True(t, steps[1].HiddenByCust)
	assert.True(t, steps[2].HiddenByDepends)
	assert.True(t, steps[3].Visible)
}
