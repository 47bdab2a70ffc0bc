package models

import "time"

// Template is an ordered, reusable collection of fields with its own
// role and customer scoping. FieldIDs reference rows in the fields table
// through the template_fields membership table.
type Template struct {
	ID                  string                  `json:"id"`
	FieldIDs            []string                `json:"fields"`
	RoleConfig          map[string]RoleOverride `json:"role_config,omitempty"`
	CustomerSpecific    bool                    `json:"customer_specific"`
	VisibleForCustomers []string                `json:"visible_for_customers,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
	CreatedBy           string                  `json:"created_by,omitempty"`
	UpdatedBy           string                  `json:"updated_by,omitempty"`
}

// TemplateView is a template with its localized texts resolved,
// the shape returned by the template read endpoints.
type TemplateView struct {
	Template
	Name        MultiLanguageText `json:"name"`
	Description MultiLanguageText `json:"description,omitempty"`
}

// FieldView is a field with its localized name resolved.
type FieldView struct {
	Field
	Name MultiLanguageText `json:"name"`
}

// TemplateExport bundles a template with the full definitions of its
// fields, for transfer between environments.
type TemplateExport struct {
	Template TemplateView `json:"template"`
	Fields   []FieldView  `json:"fields"`
}
