package services

import (
	"context"

	"github.com/regelwerk/backend/internal/domain/ports"
	"github.com/regelwerk/backend/pkg/conditions"
	"github.com/regelwerk/backend/pkg/constants"
	apperrors "github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
)

// RenderContext describes who a template is rendered for and which
// values the form currently holds. A set Language narrows every text
// map to that one language; unset keeps all translations.
type RenderContext struct {
	Role        constants.UserRole     `json:"role"`
	CustomerID  string                 `json:"customer_id"`
	Language    string                 `json:"language"`
	FieldValues map[string]interface{} `json:"field_values"`
}

// RenderService resolves a template into the concrete field list one
// user sees. Filters run in a fixed order: role first, then customer
// assignment, then dependency conditions on the surviving fields.
type RenderService struct {
	templates ports.TemplateStore
	fields    ports.FieldStore
	texts     ports.TextStore
}

func NewRenderService(templates ports.TemplateStore, fields ports.FieldStore, texts ports.TextStore) *RenderService {
	return &RenderService{
		templates: templates,
		fields:    fields,
		texts:     texts,
	}
}

// RenderTemplate resolves one template for the given context
func (s *RenderService) RenderTemplate(ctx context.Context, templateID string, rc RenderContext) (*models.RenderedTemplate, error) {
	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperrors.NewNotFoundError("Template", templateID)
	}
	return s.render(ctx, tmpl, rc)
}

// RenderTemplates resolves several templates in one pass, preserving
// the requested order. Any unknown id fails the whole request.
func (s *RenderService) RenderTemplates(ctx context.Context, templateIDs []string, rc RenderContext) ([]*models.RenderedTemplate, error) {
	rendered := make([]*models.RenderedTemplate, 0, len(templateIDs))
	for _, id := range templateIDs {
		one, err := s.RenderTemplate(ctx, id, rc)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, one)
	}
	return rendered, nil
}

func (s *RenderService) render(ctx context.Context, tmpl *models.Template, rc RenderContext) (*models.RenderedTemplate, error) {
	fields, err := s.orderedFields(ctx, tmpl)
	if err != nil {
		return nil, err
	}

	fields = FilterByRole(fields, rc.Role)
	fields = FilterByCustomer(fields, rc.CustomerID)
	fields = conditions.FilterByDependencies(fields, rc.FieldValues)

	rendered := make([]models.RenderedField, 0, len(fields))
	for _, field := range fields {
		name, err := s.texts.GetAll(ctx, constants.TextSlotFieldName, field.ID)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, models.RenderedField{
			ID:                  field.ID,
			Name:                narrowLanguage(name, rc.Language),
			Type:                field.Type,
			Visibility:          field.Visibility,
			Requirement:         field.Requirement,
			Validation:          field.Validation,
			SelectType:          field.SelectType,
			Options:             field.Options,
			DocumentMode:        field.DocumentMode,
			DocumentConstraints: field.DocumentConstraints,
			Dependencies:        field.Dependencies,
		})
	}

	name, err := s.texts.GetAll(ctx, constants.TextSlotTemplateName, tmpl.ID)
	if err != nil {
		return nil, err
	}
	description, err := s.texts.GetAll(ctx, constants.TextSlotTemplateDescription, tmpl.ID)
	if err != nil {
		return nil, err
	}

	return &models.RenderedTemplate{
		ID:          tmpl.ID,
		Name:        narrowLanguage(name, rc.Language),
		Description: narrowLanguage(description, rc.Language),
		Fields:      rendered,
	}, nil
}

// narrowLanguage reduces a text map to one language. An unknown or
// unset language keeps the full map so the caller can fall back itself.
func narrowLanguage(texts models.MultiLanguageText, language string) models.MultiLanguageText {
	if language == "" {
		return texts
	}
	if value, ok := texts[language]; ok {
		return models.MultiLanguageText{language: value}
	}
	return texts
}

// SimulationStep reports why one field of a template did or did not
// survive the render pipeline for a given context
type SimulationStep struct {
	FieldID         string `json:"field_id"`
	Visible         bool   `json:"visible"`
	HiddenByRole    bool   `json:"hidden_by_role,omitempty"`
	HiddenByCust    bool   `json:"hidden_by_customer,omitempty"`
	HiddenByDepends bool   `json:"hidden_by_dependencies,omitempty"`
}

// Simulate runs the render pipeline field by field and reports which
// filter removed each hidden field. Meant for template authors testing
// their role and dependency setup.
func (s *RenderService) Simulate(ctx context.Context, templateID string, rc RenderContext) ([]SimulationStep, error) {
	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperrors.NewNotFoundError("Template", templateID)
	}

	fields, err := s.orderedFields(ctx, tmpl)
	if err != nil {
		return nil, err
	}

	steps := make([]SimulationStep, 0, len(fields))
	for _, field := range fields {
		step := SimulationStep{FieldID: field.ID}
		switch {
		case len(FilterByRole([]*models.Field{field}, rc.Role)) == 0:
			step.HiddenByRole = true
		case len(FilterByCustomer([]*models.Field{field}, rc.CustomerID)) == 0:
			step.HiddenByCust = true
		case !conditions.ShouldShow(field, rc.FieldValues):
			step.HiddenByDepends = true
		default:
			step.Visible = true
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// orderedFields loads the template's fields in membership order
func (s *RenderService) orderedFields(ctx context.Context, tmpl *models.Template) ([]*models.Field, error) {
	fields, err := s.fields.GetByIDs(ctx, tmpl.FieldIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Field, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	ordered := make([]*models.Field, 0, len(fields))
	for _, id := range tmpl.FieldIDs {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered, nil
}

// FilterByRole drops fields hidden from the role and applies per-role
// visibility and requirement overrides. Overridden fields are cloned so
// the stored definitions never change; fields without an entry for the
// role pass through with their defaults.
func FilterByRole(fields []*models.Field, role constants.UserRole) []*models.Field {
	result := make([]*models.Field, 0, len(fields))
	for _, field := range fields {
		override, ok := field.RoleConfig[string(role)]
		if !ok {
			result = append(result, field)
			continue
		}
		if override.Visible != nil && !*override.Visible {
			continue
		}

		adjusted := field.Clone()
		if override.Visibility != nil {
			adjusted.Visibility = *override.Visibility
		}
		if override.Requirement != nil {
			adjusted.Requirement = *override.Requirement
		}
		result = append(result, adjusted)
	}
	return result
}

// FilterByCustomer drops customer-specific fields that are not assigned
// to the given customer. Non-specific fields always pass; a specific
// field with an empty assignment list is visible to nobody.
func FilterByCustomer(fields []*models.Field, customerID string) []*models.Field {
	result := make([]*models.Field, 0, len(fields))
	for _, field := range fields {
		if !field.CustomerSpecific {
			result = append(result, field)
			continue
		}
		// Without a customer context only non-specific fields render
		if customerID == "" {
			continue
		}
		for _, assigned := range field.VisibleForCustomers {
			if assigned == customerID {
				result = append(result, field)
				break
			}
		}
	}
	return result
}
