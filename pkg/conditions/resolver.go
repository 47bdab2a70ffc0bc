package conditions

import "github.com/regelwerk/backend/pkg/models"

// ShouldShow decides whether a field is visible given the submitted
// values. A field without dependencies is always visible; otherwise every
// condition must hold (AND, no grouping).
func ShouldShow(field *models.Field, fieldValues map[string]interface{}) bool {
	if len(field.Dependencies) == 0 {
		return true
	}
	for _, dep := range field.Dependencies {
		if !Evaluate(dep, fieldValues) {
			return false
		}
	}
	return true
}

// FilterByDependencies keeps the fields whose dependency conditions are
// satisfied, preserving the original order.
func FilterByDependencies(fields []*models.Field, fieldValues map[string]interface{}) []*models.Field {
	visible := make([]*models.Field, 0, len(fields))
	for _, field := range fields {
		if ShouldShow(field, fieldValues) {
			visible = append(visible, field)
		}
	}
	return visible
}
