package form

import (
	"github.com/Tough-Day/conference-invites/fault"
	"github.com/Tough-Day/conference-invites/model"
)

// ValidateSubmission checks that every active required field has a non-empty
// value in the submitted form data. It reports every missing field name at
// once. Retired fields and format rules are deliberately not checked.
func ValidateSubmission(fields []model.FormField, formData map[string]any) error {
	var missing []string
	for _, f := range fields {
		if f.Required && f.IsActive && !truthy(formData[f.FieldName]) {
			missing = append(missing, f.FieldName)
		}
	}
	if len(missing) > 0 {
		return fault.NewValidationError("missing required fields", missing...)
	}
	return nil
}

// truthy mirrors the presence semantics of the public form client: absent,
// empty string, zero and false all count as missing; any array or object
// counts as present.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}
