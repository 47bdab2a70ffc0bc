package constants

// Table names
const (
	TableTemplates      = "templates"
	TableFields         = "fields"
	TableTemplateFields = "template_fields"
	TableTexts          = "multilanguage_texts"
	TableChangeLogs     = "change_logs"
	TableUsers          = "users"
)

// Common column / JSON keys shared between repositories and handlers
const (
	FieldID        = "id"
	FieldMessage   = "message"
	ResponseError  = "error"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// HTTP / context keys
const (
	HeaderAuthorization = "Authorization"
	ContextKeyUser      = "user"
)
