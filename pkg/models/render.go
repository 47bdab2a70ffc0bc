package models

import (
	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/validation"
)

// RenderedField is one surviving field of a render pass: the role-adjusted
// view of the field plus its localized name. Declarative attributes are
// echoed verbatim so the frontend can build the input element.
type RenderedField struct {
	ID                  string                     `json:"id"`
	Name                MultiLanguageText          `json:"name"`
	Type                constants.FieldType        `json:"type"`
	Visibility          constants.FieldVisibility  `json:"visibility"`
	Requirement         constants.FieldRequirement `json:"requirement"`
	Validation          validation.Config          `json:"validation,omitempty"`
	SelectType          constants.SelectType       `json:"select_type,omitempty"`
	Options             []SelectOption             `json:"options,omitempty"`
	DocumentMode        constants.DocumentMode     `json:"document_mode,omitempty"`
	DocumentConstraints *DocumentConstraints       `json:"document_constraints,omitempty"`
	Dependencies        []Condition                `json:"dependencies,omitempty"`
}

// RenderedTemplate is the filtered, localized view of one template for a
// given role/customer/value context. Zero fields is a valid outcome.
type RenderedTemplate struct {
	ID          string            `json:"id"`
	Name        MultiLanguageText `json:"name"`
	Description MultiLanguageText `json:"description,omitempty"`
	Fields      []RenderedField   `json:"fields"`
}
