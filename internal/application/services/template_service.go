package services

import (
	"context"
	"time"

	"github.com/regelwerk/backend/internal/domain/ports"
	"github.com/regelwerk/backend/pkg/constants"
	apperrors "github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
	"github.com/regelwerk/backend/pkg/utils"
)

// TemplateInput carries a create or update payload. For updates the
// zero values mean "leave untouched": nil maps and slices are absent,
// a nil CustomerSpecific keeps the stored flag.
type TemplateInput struct {
	Name                models.MultiLanguageText       `json:"name"`
	Description         models.MultiLanguageText       `json:"description"`
	FieldIDs            []string                       `json:"fields"`
	RoleConfig          map[string]models.RoleOverride `json:"role_config"`
	CustomerSpecific    *bool                          `json:"customer_specific"`
	VisibleForCustomers []string                       `json:"visible_for_customers"`
}

// TemplateService manages templates and their localized name and
// description texts
type TemplateService struct {
	templates ports.TemplateStore
	fields    ports.FieldStore
	texts     ports.TextStore
	changeLog *ChangeLogService
}

func NewTemplateService(templates ports.TemplateStore, fields ports.FieldStore, texts ports.TextStore, changeLog *ChangeLogService) *TemplateService {
	return &TemplateService{
		templates: templates,
		fields:    fields,
		texts:     texts,
		changeLog: changeLog,
	}
}

// List returns every template with its localized texts attached
func (s *TemplateService) List(ctx context.Context) ([]*models.TemplateView, error) {
	templates, err := s.templates.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*models.TemplateView, 0, len(templates))
	for _, tmpl := range templates {
		view, err := s.buildView(ctx, tmpl)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get loads one template view or a not-found error
func (s *TemplateService) Get(ctx context.Context, id string) (*models.TemplateView, error) {
	tmpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperrors.NewNotFoundError("Template", id)
	}
	return s.buildView(ctx, tmpl)
}

// Create stores a new template. Referenced field ids that do not exist
// are dropped silently, preserving the order of the rest.
func (s *TemplateService) Create(ctx context.Context, input TemplateInput, user *models.UserSession) (*models.TemplateView, error) {
	fieldIDs, err := s.fields.FilterExisting(ctx, input.FieldIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tmpl := &models.Template{
		ID:                  utils.GenerateID(),
		FieldIDs:            fieldIDs,
		RoleConfig:          input.RoleConfig,
		VisibleForCustomers: input.VisibleForCustomers,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if input.CustomerSpecific != nil {
		tmpl.CustomerSpecific = *input.CustomerSpecific
	}
	if user != nil {
		tmpl.CreatedBy = user.ID
		tmpl.UpdatedBy = user.ID
	}

	if err := s.templates.Insert(ctx, tmpl); err != nil {
		return nil, err
	}
	if err := s.texts.SetAll(ctx, constants.TextSlotTemplateName, tmpl.ID, input.Name); err != nil {
		return nil, err
	}
	if err := s.texts.SetAll(ctx, constants.TextSlotTemplateDescription, tmpl.ID, input.Description); err != nil {
		return nil, err
	}

	s.changeLog.LogChange(ctx, constants.EntityTemplate, tmpl.ID, constants.ActionCreated, changeSet(input), user)
	return s.buildView(ctx, tmpl)
}

// Update patches a template. Only the parts present in the input change;
// a present field list is pruned to existing ids before it replaces the
// stored membership.
func (s *TemplateService) Update(ctx context.Context, id string, input TemplateInput, user *models.UserSession) (*models.TemplateView, error) {
	tmpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperrors.NewNotFoundError("Template", id)
	}

	if input.FieldIDs != nil {
		fieldIDs, err := s.fields.FilterExisting(ctx, input.FieldIDs)
		if err != nil {
			return nil, err
		}
		if err := s.templates.ReplaceFieldIDs(ctx, id, fieldIDs); err != nil {
			return nil, err
		}
		tmpl.FieldIDs = fieldIDs
	}

	if input.RoleConfig != nil {
		tmpl.RoleConfig = input.RoleConfig
	}
	if input.CustomerSpecific != nil {
		tmpl.CustomerSpecific = *input.CustomerSpecific
	}
	if input.VisibleForCustomers != nil {
		tmpl.VisibleForCustomers = input.VisibleForCustomers
	}
	tmpl.UpdatedAt = time.Now().UTC()
	if user != nil {
		tmpl.UpdatedBy = user.ID
	}

	if err := s.templates.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := s.texts.UpdateAll(ctx, constants.TextSlotTemplateName, id, input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := s.texts.UpdateAll(ctx, constants.TextSlotTemplateDescription, id, input.Description); err != nil {
			return nil, err
		}
	}

	s.changeLog.LogChange(ctx, constants.EntityTemplate, id, constants.ActionUpdated, changeSet(input), user)
	return s.buildView(ctx, tmpl)
}

// Delete removes a template, its field membership, and its texts
func (s *TemplateService) Delete(ctx context.Context, id string, user *models.UserSession) error {
	tmpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tmpl == nil {
		return apperrors.NewNotFoundError("Template", id)
	}

	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.texts.DeleteAll(ctx, id, constants.TextSlotTemplateName, constants.TextSlotTemplateDescription); err != nil {
		return err
	}

	s.changeLog.LogChange(ctx, constants.EntityTemplate, id, constants.ActionDeleted, nil, user)
	return nil
}

// Export bundles one template with the full definitions of its fields
func (s *TemplateService) Export(ctx context.Context, id string) (*models.TemplateExport, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildExport(ctx, view)
}

// ExportAll bundles every template for backup or transfer
func (s *TemplateService) ExportAll(ctx context.Context) ([]*models.TemplateExport, error) {
	views, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	exports := make([]*models.TemplateExport, 0, len(views))
	for _, view := range views {
		export, err := s.buildExport(ctx, view)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}
	return exports, nil
}

func (s *TemplateService) buildExport(ctx context.Context, view *models.TemplateView) (*models.TemplateExport, error) {
	fields, err := s.fields.GetByIDs(ctx, view.FieldIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Field, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	// Keep the template's field order in the export
	fieldViews := make([]models.FieldView, 0, len(fields))
	for _, fieldID := range view.FieldIDs {
		field, ok := byID[fieldID]
		if !ok {
			continue
		}
		name, err := s.texts.GetAll(ctx, constants.TextSlotFieldName, fieldID)
		if err != nil {
			return nil, err
		}
		fieldViews = append(fieldViews, models.FieldView{Field: *field, Name: name})
	}

	return &models.TemplateExport{Template: *view, Fields: fieldViews}, nil
}

func (s *TemplateService) buildView(ctx context.Context, tmpl *models.Template) (*models.TemplateView, error) {
	name, err := s.texts.GetAll(ctx, constants.TextSlotTemplateName, tmpl.ID)
	if err != nil {
		return nil, err
	}
	description, err := s.texts.GetAll(ctx, constants.TextSlotTemplateDescription, tmpl.ID)
	if err != nil {
		return nil, err
	}
	return &models.TemplateView{Template: *tmpl, Name: name, Description: description}, nil
}

// changeSet flattens an input payload into the audit record
func changeSet(input interface{}) map[string]interface{} {
	switch v := input.(type) {
	case TemplateInput:
		changes := map[string]interface{}{}
		if v.Name != nil {
			changes["name"] = v.Name
		}
		if v.Description != nil {
			changes["description"] = v.Description
		}
		if v.FieldIDs != nil {
			changes["fields"] = v.FieldIDs
		}
		if v.RoleConfig != nil {
			changes["role_config"] = v.RoleConfig
		}
		if v.CustomerSpecific != nil {
			changes["customer_specific"] = *v.CustomerSpecific
		}
		if v.VisibleForCustomers != nil {
			changes["visible_for_customers"] = v.VisibleForCustomers
		}
		return changes
	case FieldInput:
		return v.changeSet()
	default:
		return nil
	}
}
