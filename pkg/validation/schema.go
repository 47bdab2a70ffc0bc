package validation

// Schema returns the menu of validation options a form builder may offer
// for a given field kind. Descriptive metadata only; select fields carry
// no categories since their options are predefined.
func Schema(fieldType string) map[string]map[string]string {
	switch fieldType {
	case "text":
		return map[string]map[string]string{
			"string": {
				"min_length":    "Minimum character length",
				"max_length":    "Maximum character length",
				"pattern":       "Regular expression pattern",
				"pattern_error": "Custom error message for pattern mismatch",
				"format":        "Predefined format (email, phone, url)",
			},
			"number": {
				"min_value":          "Minimum numeric value",
				"max_value":          "Maximum numeric value",
				"integer_only":       "Allow only integers",
				"max_decimal_places": "Maximum decimal places",
			},
			"date": {
				"format":          "Date format string",
				"min_date":        "Minimum allowed date (YYYY-MM-DD)",
				"max_date":        "Maximum allowed date (YYYY-MM-DD)",
				"no_future_dates": "Disallow future dates",
				"no_past_dates":   "Disallow past dates",
			},
		}
	case "document":
		return map[string]map[string]string{
			"file": {
				"max_size_mb":        "Maximum file size in MB",
				"allowed_extensions": "List of allowed file extensions",
				"allowed_mime_types": "List of allowed MIME types",
			},
		}
	case "select":
		return map[string]map[string]string{}
	}
	return map[string]map[string]string{}
}
