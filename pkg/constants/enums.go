package constants

// FieldType represents the kind of form element a field definition describes
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDocument FieldType = "document"
)

// GetAllFieldTypes returns all valid field types as a slice of strings
func GetAllFieldTypes() []string {
	return []string{
		string(FieldTypeText),
		string(FieldTypeSelect),
		string(FieldTypeDocument),
	}
}

// IsValidFieldType checks if a string is a known field type
func IsValidFieldType(s string) bool {
	switch FieldType(s) {
	case FieldTypeText, FieldTypeSelect, FieldTypeDocument:
		return true
	}
	return false
}

// FieldVisibility represents the default rendering mode of a field
type FieldVisibility string

const (
	VisibilityVisible  FieldVisibility = "visible"
	VisibilityEditable FieldVisibility = "editable"
)

// FieldRequirement represents whether a field must be filled in
type FieldRequirement string

const (
	RequirementOptional FieldRequirement = "optional"
	RequirementRequired FieldRequirement = "required"
)

// IsValidFieldVisibility checks if a string is a known visibility mode
func IsValidFieldVisibility(s string) bool {
	switch FieldVisibility(s) {
	case VisibilityVisible, VisibilityEditable:
		return true
	}
	return false
}

// IsValidFieldRequirement checks if a string is a known requirement level
func IsValidFieldRequirement(s string) bool {
	switch FieldRequirement(s) {
	case RequirementOptional, RequirementRequired:
		return true
	}
	return false
}

// SelectType represents how a select field is presented
type SelectType string

const (
	SelectTypeRadio    SelectType = "radio"
	SelectTypeMultiple SelectType = "multiple"
)

// IsValidSelectType checks if a string is a known select presentation
func IsValidSelectType(s string) bool {
	switch SelectType(s) {
	case SelectTypeRadio, SelectTypeMultiple:
		return true
	}
	return false
}

// DocumentMode represents how a document field behaves in the form
type DocumentMode string

const (
	DocumentModeDownload               DocumentMode = "download"
	DocumentModeDownloadUpload         DocumentMode = "download_upload"
	DocumentModeDownloadMetadataUpload DocumentMode = "download_metadata_upload"
	DocumentModeUpload                 DocumentMode = "upload"
)

// IsValidDocumentMode checks if a string is a known document mode
func IsValidDocumentMode(s string) bool {
	switch DocumentMode(s) {
	case DocumentModeDownload, DocumentModeDownloadUpload,
		DocumentModeDownloadMetadataUpload, DocumentModeUpload:
		return true
	}
	return false
}

// UserRole represents the acting user's category
type UserRole string

const (
	RoleAnmelder UserRole = "anmelder"
	RoleKlient   UserRole = "klient"
	RoleAdmin    UserRole = "admin"
)

// IsValidUserRole checks if a string is a known role
func IsValidUserRole(s string) bool {
	switch UserRole(s) {
	case RoleAnmelder, RoleKlient, RoleAdmin:
		return true
	}
	return false
}

// Language is a supported content language code
type Language string

const (
	LanguageDE Language = "de"
	LanguageFR Language = "fr"
	LanguageIT Language = "it"
)

// GetAllLanguages returns the supported language codes
func GetAllLanguages() []string {
	return []string{
		string(LanguageDE),
		string(LanguageFR),
		string(LanguageIT),
	}
}

// ConditionOperator represents a dependency condition operator
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorIn          ConditionOperator = "in"
	OperatorNotIn       ConditionOperator = "not_in"
	OperatorContains    ConditionOperator = "contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorRegexMatch  ConditionOperator = "regex_match"
	OperatorIsEmpty     ConditionOperator = "is_empty"
	OperatorIsNotEmpty  ConditionOperator = "is_not_empty"
)

// IsValidConditionOperator checks if a string is a known operator
func IsValidConditionOperator(s string) bool {
	switch ConditionOperator(s) {
	case OperatorEquals, OperatorNotEquals, OperatorIn, OperatorNotIn,
		OperatorContains, OperatorGreaterThan, OperatorLessThan,
		OperatorRegexMatch, OperatorIsEmpty, OperatorIsNotEmpty:
		return true
	}
	return false
}

// ChangeAction represents an audited mutation
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// Audited entity kinds
const (
	EntityTemplate = "template"
	EntityField    = "field"
)

// Localized text slots. One entity may own several distinct slots.
const (
	TextSlotTemplateName        = "template_name"
	TextSlotTemplateDescription = "template_description"
	TextSlotFieldName           = "field_name"
)
