// Package validation checks submitted field values against declarative
// per-category rule configs. Categories are a closed set (string, number,
// date, file, custom); every configured category is evaluated and all
// errors are accumulated. Requiredness is the caller's concern: a missing
// or empty value passes every category here.
package validation

import (
	"encoding/json"
	"log"
)

// StringRules validates stringified values
type StringRules struct {
	MinLength    *int    `json:"min_length,omitempty"`
	MaxLength    *int    `json:"max_length,omitempty"`
	Pattern      *string `json:"pattern,omitempty"`
	PatternError *string `json:"pattern_error,omitempty"`
	Format       *string `json:"format,omitempty"` // email, phone, url
}

// NumberRules validates numeric values
type NumberRules struct {
	MinValue         *float64 `json:"min_value,omitempty"`
	MaxValue         *float64 `json:"max_value,omitempty"`
	IntegerOnly      bool     `json:"integer_only,omitempty"`
	MaxDecimalPlaces *int     `json:"max_decimal_places,omitempty"`
}

// DateRules validates date values. Format is a Go layout string applied to
// the submitted value; MinDate/MaxDate are always ISO (2006-01-02).
type DateRules struct {
	Format        *string `json:"format,omitempty"`
	MinDate       *string `json:"min_date,omitempty"`
	MaxDate       *string `json:"max_date,omitempty"`
	NoFutureDates bool    `json:"no_future_dates,omitempty"`
	NoPastDates   bool    `json:"no_past_dates,omitempty"`
}

// FileRules validates upload metadata
type FileRules struct {
	MaxSizeMB         *float64 `json:"max_size_mb,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
	AllowedMimeTypes  []string `json:"allowed_mime_types,omitempty"`
}

// CustomRules is a reserved extension point. It is never evaluated:
// arbitrary expressions need a sandboxing design that does not exist yet.
type CustomRules struct {
	Expression *string `json:"expression,omitempty"`
}

// Config maps rule categories to their options. A zero Config means
// "always valid".
type Config struct {
	String *StringRules `json:"string,omitempty"`
	Number *NumberRules `json:"number,omitempty"`
	Date   *DateRules   `json:"date,omitempty"`
	File   *FileRules   `json:"file,omitempty"`
	Custom *CustomRules `json:"custom,omitempty"`
}

// IsZero reports whether no category is configured
func (c Config) IsZero() bool {
	return c.String == nil && c.Number == nil && c.Date == nil && c.File == nil && c.Custom == nil
}

// ParseConfig decodes a raw validation mapping into a Config. Unknown
// category names are dropped with a logged warning, never an error.
func ParseConfig(raw json.RawMessage) (Config, error) {
	var cfg Config
	if len(raw) == 0 {
		return cfg, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return cfg, err
	}
	for name := range keys {
		switch name {
		case "string", "number", "date", "file", "custom":
		default:
			log.Printf("Unknown validation rule category: %s", name)
		}
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FileValue carries the upload metadata the file rules inspect. Nil Size,
// empty Filename or empty ContentType mean the corresponding capability is
// absent, and its checks are skipped.
type FileValue struct {
	Size        *int64 `json:"size,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}
