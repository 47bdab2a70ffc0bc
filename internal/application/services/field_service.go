package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/regelwerk/backend/internal/domain/ports"
	"github.com/regelwerk/backend/pkg/conditions"
	"github.com/regelwerk/backend/pkg/constants"
	apperrors "github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
	"github.com/regelwerk/backend/pkg/utils"
	"github.com/regelwerk/backend/pkg/validation"
)

// FieldInput carries a field create or update payload. Absent parts
// (nil pointers, nil maps, nil slices) leave the stored value untouched
// on update.
type FieldInput struct {
	Type                *constants.FieldType           `json:"type"`
	Visibility          *constants.FieldVisibility     `json:"visibility"`
	Requirement         *constants.FieldRequirement    `json:"requirement"`
	Name                models.MultiLanguageText       `json:"name"`
	Validation          json.RawMessage                `json:"validation"`
	SelectType          *constants.SelectType          `json:"select_type"`
	Options             []models.SelectOption          `json:"options"`
	DocumentMode        *constants.DocumentMode        `json:"document_mode"`
	DocumentConstraints *models.DocumentConstraints    `json:"document_constraints"`
	RoleConfig          map[string]models.RoleOverride `json:"role_config"`
	CustomerSpecific    *bool                          `json:"customer_specific"`
	VisibleForCustomers []string                       `json:"visible_for_customers"`
	Dependencies        []models.Condition             `json:"dependencies"`
}

func (in FieldInput) changeSet() map[string]interface{} {
	changes := map[string]interface{}{}
	if in.Type != nil {
		changes["type"] = *in.Type
	}
	if in.Visibility != nil {
		changes["visibility"] = *in.Visibility
	}
	if in.Requirement != nil {
		changes["requirement"] = *in.Requirement
	}
	if in.Name != nil {
		changes["name"] = in.Name
	}
	if in.Validation != nil {
		changes["validation"] = json.RawMessage(in.Validation)
	}
	if in.SelectType != nil {
		changes["select_type"] = *in.SelectType
	}
	if in.Options != nil {
		changes["options"] = in.Options
	}
	if in.DocumentMode != nil {
		changes["document_mode"] = *in.DocumentMode
	}
	if in.DocumentConstraints != nil {
		changes["document_constraints"] = in.DocumentConstraints
	}
	if in.RoleConfig != nil {
		changes["role_config"] = in.RoleConfig
	}
	if in.CustomerSpecific != nil {
		changes["customer_specific"] = *in.CustomerSpecific
	}
	if in.VisibleForCustomers != nil {
		changes["visible_for_customers"] = in.VisibleForCustomers
	}
	if in.Dependencies != nil {
		changes["dependencies"] = in.Dependencies
	}
	return changes
}

// FieldService manages field definitions, their localized names, and
// value validation against a field's configured rules
type FieldService struct {
	fields    ports.FieldStore
	templates ports.TemplateStore
	texts     ports.TextStore
	changeLog *ChangeLogService
}

func NewFieldService(fields ports.FieldStore, templates ports.TemplateStore, texts ports.TextStore, changeLog *ChangeLogService) *FieldService {
	return &FieldService{
		fields:    fields,
		templates: templates,
		texts:     texts,
		changeLog: changeLog,
	}
}

// List returns every field definition with its localized name
func (s *FieldService) List(ctx context.Context) ([]*models.FieldView, error) {
	fields, err := s.fields.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*models.FieldView, 0, len(fields))
	for _, field := range fields {
		view, err := s.buildView(ctx, field)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get loads one field view or a not-found error
func (s *FieldService) Get(ctx context.Context, id string) (*models.FieldView, error) {
	field, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, apperrors.NewNotFoundError("Field", id)
	}
	return s.buildView(ctx, field)
}

// Create stores a new field definition
func (s *FieldService) Create(ctx context.Context, input FieldInput, user *models.UserSession) (*models.FieldView, error) {
	if input.Type == nil || !constants.IsValidFieldType(string(*input.Type)) {
		return nil, apperrors.NewValidationError("type", "must be one of text, select, document")
	}

	now := time.Now().UTC()
	field := &models.Field{
		ID:                  utils.GenerateID(),
		Type:                *input.Type,
		Visibility:          constants.VisibilityEditable,
		Requirement:         constants.RequirementOptional,
		Options:             input.Options,
		DocumentConstraints: input.DocumentConstraints,
		RoleConfig:          input.RoleConfig,
		VisibleForCustomers: input.VisibleForCustomers,
		Dependencies:        input.Dependencies,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := applyFieldInput(field, input); err != nil {
		return nil, err
	}
	if err := checkFieldShape(field); err != nil {
		return nil, err
	}

	if err := s.fields.Insert(ctx, field); err != nil {
		return nil, err
	}
	if err := s.texts.SetAll(ctx, constants.TextSlotFieldName, field.ID, input.Name); err != nil {
		return nil, err
	}

	s.changeLog.LogChange(ctx, constants.EntityField, field.ID, constants.ActionCreated, input.changeSet(), user)
	return s.buildView(ctx, field)
}

// Update patches a field definition. Only present parts change; the
// field type itself is immutable after creation.
func (s *FieldService) Update(ctx context.Context, id string, input FieldInput, user *models.UserSession) (*models.FieldView, error) {
	field, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, apperrors.NewNotFoundError("Field", id)
	}

	if input.Type != nil && *input.Type != field.Type {
		return nil, apperrors.NewValidationError("type", "field type cannot be changed")
	}
	if input.Options != nil {
		field.Options = input.Options
	}
	if input.DocumentConstraints != nil {
		field.DocumentConstraints = input.DocumentConstraints
	}
	if input.RoleConfig != nil {
		field.RoleConfig = input.RoleConfig
	}
	if input.VisibleForCustomers != nil {
		field.VisibleForCustomers = input.VisibleForCustomers
	}
	if input.Dependencies != nil {
		field.Dependencies = input.Dependencies
	}
	if err := applyFieldInput(field, input); err != nil {
		return nil, err
	}
	if err := checkFieldShape(field); err != nil {
		return nil, err
	}
	field.UpdatedAt = time.Now().UTC()

	if err := s.fields.Update(ctx, field); err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := s.texts.UpdateAll(ctx, constants.TextSlotFieldName, id, input.Name); err != nil {
			return nil, err
		}
	}

	s.changeLog.LogChange(ctx, constants.EntityField, id, constants.ActionUpdated, input.changeSet(), user)
	return s.buildView(ctx, field)
}

// Delete removes a field, detaches it from every template, and drops
// its localized name
func (s *FieldService) Delete(ctx context.Context, id string, user *models.UserSession) error {
	field, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if field == nil {
		return apperrors.NewNotFoundError("Field", id)
	}

	if err := s.templates.RemoveFieldFromAll(ctx, id); err != nil {
		return err
	}
	if err := s.fields.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.texts.DeleteAll(ctx, id, constants.TextSlotFieldName); err != nil {
		return err
	}

	s.changeLog.LogChange(ctx, constants.EntityField, id, constants.ActionDeleted, nil, user)
	return nil
}

// ValidateValue checks a submitted value against a field's rules.
// Required fields reject empty values. Select fields require option
// membership, a list of values for multi-selects and a single value
// otherwise, on top of the configured validation rules.
func (s *FieldService) ValidateValue(ctx context.Context, id string, value interface{}) (*validation.Result, error) {
	field, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, apperrors.NewNotFoundError("Field", id)
	}

	if utils.IsEmptyValue(value) {
		if field.Requirement == constants.RequirementRequired {
			return &validation.Result{Valid: false, Errors: []string{"This field is required"}}, nil
		}
		return &validation.Result{Valid: true, Errors: []string{}}, nil
	}

	if field.Type == constants.FieldTypeSelect {
		return validateSelectValue(field, value), nil
	}

	result := validation.Validate(value, field.Validation)
	return &result, nil
}

// ValidationSchema lists the rule options applicable to a field type
func (s *FieldService) ValidationSchema(fieldType string) (map[string]map[string]string, error) {
	if !constants.IsValidFieldType(fieldType) {
		return nil, apperrors.NewValidationError("field_type", fmt.Sprintf("unknown field type: %s", fieldType))
	}
	return validation.Schema(fieldType), nil
}

func validateSelectValue(field *models.Field, value interface{}) *validation.Result {
	allowed := make(map[string]bool, len(field.Options))
	for _, opt := range field.Options {
		allowed[opt.Value] = true
	}

	result := validation.Result{Valid: true, Errors: []string{}}

	if field.SelectType == constants.SelectTypeMultiple {
		// Multi-selects only accept a list of option values
		list, ok := conditions.AsList(value)
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, "Multiple selection must be a list")
		} else {
			for _, item := range list {
				if !allowed[utils.ToString(item)] {
					result.Valid = false
					result.Errors = append(result.Errors, fmt.Sprintf("Invalid selection: %v", item))
				}
			}
		}
	} else {
		if _, isList := conditions.AsList(value); isList || !allowed[utils.ToString(value)] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid selection: %v", value))
		}
	}

	if configured := validation.Validate(value, field.Validation); !configured.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, configured.Errors...)
	}
	return &result
}

// applyFieldInput copies the scalar parts of the input onto the field,
// rejecting unknown enum values
func applyFieldInput(field *models.Field, input FieldInput) error {
	if input.Visibility != nil {
		if !constants.IsValidFieldVisibility(string(*input.Visibility)) {
			return apperrors.NewValidationError("visibility", "must be visible or editable")
		}
		field.Visibility = *input.Visibility
	}
	if input.Requirement != nil {
		if !constants.IsValidFieldRequirement(string(*input.Requirement)) {
			return apperrors.NewValidationError("requirement", "must be optional or required")
		}
		field.Requirement = *input.Requirement
	}
	if input.SelectType != nil {
		if !constants.IsValidSelectType(string(*input.SelectType)) {
			return apperrors.NewValidationError("select_type", "must be radio or multiple")
		}
		field.SelectType = *input.SelectType
	}
	if input.DocumentMode != nil {
		if !constants.IsValidDocumentMode(string(*input.DocumentMode)) {
			return apperrors.NewValidationError("document_mode", fmt.Sprintf("unknown document_mode: %s", *input.DocumentMode))
		}
		field.DocumentMode = *input.DocumentMode
	}
	if input.CustomerSpecific != nil {
		field.CustomerSpecific = *input.CustomerSpecific
	}
	if input.Validation != nil {
		cfg, err := validation.ParseConfig(input.Validation)
		if err != nil {
			return apperrors.NewValidationError("validation", fmt.Sprintf("invalid validation config: %v", err))
		}
		field.Validation = cfg
	}
	return nil
}

// checkFieldShape enforces the per-type structure of a field
func checkFieldShape(field *models.Field) error {
	switch field.Type {
	case constants.FieldTypeSelect:
		if len(field.Options) == 0 {
			return apperrors.NewValidationError("options", "select fields need at least one option")
		}
		seen := make(map[string]bool, len(field.Options))
		for _, opt := range field.Options {
			if seen[opt.Value] {
				return apperrors.NewValidationError("options", fmt.Sprintf("duplicate option value: %s", opt.Value))
			}
			seen[opt.Value] = true
		}
	case constants.FieldTypeDocument:
		if field.DocumentMode == "" {
			field.DocumentMode = constants.DocumentModeUpload
		}
	}

	for _, dep := range field.Dependencies {
		if dep.FieldID == "" {
			return apperrors.NewValidationError("dependencies", "dependency condition is missing field_id")
		}
		if dep.Operator != "" && !constants.IsValidConditionOperator(dep.Operator) {
			return apperrors.NewValidationError("dependencies", fmt.Sprintf("unknown condition operator: %s", dep.Operator))
		}
	}
	return nil
}

func (s *FieldService) buildView(ctx context.Context, field *models.Field) (*models.FieldView, error) {
	name, err := s.texts.GetAll(ctx, constants.TextSlotFieldName, field.ID)
	if err != nil {
		return nil, err
	}
	return &models.FieldView{Field: *field, Name: name}, nil
}
