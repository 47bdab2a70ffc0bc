package models

import (
	"time"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/validation"
)

// MultiLanguageText maps a 2-letter language code to localized content.
// Languages without a stored text are simply absent from the map.
type MultiLanguageText map[string]string

// Condition gates a field's visibility on another field's submitted value.
type Condition struct {
	FieldID        string      `json:"field_id"`
	Operator       string      `json:"operator,omitempty"` // empty means equals
	ConditionValue interface{} `json:"condition_value,omitempty"`
}

// SelectOption is one choice of a select field. Value must be unique
// within the owning field's option list.
type SelectOption struct {
	ID    string            `json:"id"`
	Label MultiLanguageText `json:"label"`
	Value string            `json:"value"`
}

// DocumentConstraints limits uploads on document fields
type DocumentConstraints struct {
	MaxSizeMB        *float64 `json:"max_size_mb,omitempty"`
	AllowedFormats   []string `json:"allowed_formats,omitempty"`
	AllowedMimeTypes []string `json:"allowed_mime_types,omitempty"`
}

// RoleOverride adjusts a field's exposure for one role.
// A nil Visible counts as visible; Visibility/Requirement replace the
// field's defaults when set.
type RoleOverride struct {
	Visible     *bool                       `json:"visible,omitempty"`
	Visibility  *constants.FieldVisibility  `json:"visibility,omitempty"`
	Requirement *constants.FieldRequirement `json:"requirement,omitempty"`
}

// Field is a single form-input definition with type, validation,
// visibility, and dependency metadata.
type Field struct {
	ID          string                      `json:"id"`
	Type        constants.FieldType         `json:"type"`
	Visibility  constants.FieldVisibility   `json:"visibility"`
	Requirement constants.FieldRequirement  `json:"requirement"`
	Validation  validation.Config           `json:"validation,omitempty"`

	// Select fields only
	SelectType constants.SelectType `json:"select_type,omitempty"`
	Options    []SelectOption       `json:"options,omitempty"`

	// Document fields only
	DocumentMode        constants.DocumentMode `json:"document_mode,omitempty"`
	DocumentConstraints *DocumentConstraints   `json:"document_constraints,omitempty"`

	RoleConfig          map[string]RoleOverride `json:"role_config,omitempty"`
	CustomerSpecific    bool                    `json:"customer_specific"`
	VisibleForCustomers []string                `json:"visible_for_customers,omitempty"`
	Dependencies        []Condition             `json:"dependencies,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the field. Render-time role overrides are
// applied to copies so the canonical stored field is never mutated.
func (f *Field) Clone() *Field {
	c := *f

	if f.Options != nil {
		c.Options = make([]SelectOption, len(f.Options))
		for i, opt := range f.Options {
			c.Options[i] = opt
			if opt.Label != nil {
				c.Options[i].Label = make(MultiLanguageText, len(opt.Label))
				for k, v := range opt.Label {
					c.Options[i].Label[k] = v
				}
			}
		}
	}

	if f.DocumentConstraints != nil {
		dc := *f.DocumentConstraints
		if f.DocumentConstraints.MaxSizeMB != nil {
			mb := *f.DocumentConstraints.MaxSizeMB
			dc.MaxSizeMB = &mb
		}
		dc.AllowedFormats = append([]string(nil), f.DocumentConstraints.AllowedFormats...)
		dc.AllowedMimeTypes = append([]string(nil), f.DocumentConstraints.AllowedMimeTypes...)
		c.DocumentConstraints = &dc
	}

	if f.RoleConfig != nil {
		c.RoleConfig = make(map[string]RoleOverride, len(f.RoleConfig))
		for role, override := range f.RoleConfig {
			c.RoleConfig[role] = override.clone()
		}
	}

	c.VisibleForCustomers = append([]string(nil), f.VisibleForCustomers...)
	c.Dependencies = append([]Condition(nil), f.Dependencies...)

	return &c
}

func (o RoleOverride) clone() RoleOverride {
	c := o
	if o.Visible != nil {
		v := *o.Visible
		c.Visible = &v
	}
	if o.Visibility != nil {
		v := *o.Visibility
		c.Visibility = &v
	}
	if o.Requirement != nil {
		r := *o.Requirement
		c.Requirement = &r
	}
	return c
}
