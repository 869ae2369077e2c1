package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tough-Day/conference-invites/fault"
	"github.com/Tough-Day/conference-invites/model"
)

func TestValidateSubmission_MissingRequiredFieldsAreAllListed(t *testing.T) {
	fields := []model.FormField{
		{FieldName: "name", Required: true, IsActive: true},
		{FieldName: "email", Required: true, IsActive: true},
		{FieldName: "company", Required: false, IsActive: true},
	}

	err := ValidateSubmission(fields, map[string]any{"company": "ACME"})
	require.Error(t, err)
	assert.True(t, fault.IsValidationError(err))
	assert.Equal(t, []string{"name", "email"}, fault.ValidationFields(err))
}

func TestValidateSubmission_PassesOnceFieldsArePresent(t *testing.T) {
	fields := []model.FormField{
		{FieldName: "name", Required: true, IsActive: true},
		{FieldName: "email", Required: true, IsActive: true},
	}

	data := map[string]any{"name": "Ada", "email": "ada@example.test"}
	assert.NoError(t, ValidateSubmission(fields, data))
}

func TestValidateSubmission_RetiredFieldIsNotEnforced(t *testing.T) {
	fields := []model.FormField{
		{FieldName: "name", Required: true, IsActive: true},
		{FieldName: "role", Required: true, IsActive: false},
	}

	err := ValidateSubmission(fields, map[string]any{"name": "Ada"})
	assert.NoError(t, err, "a retired required field must not block submissions")
}

func TestValidateSubmission_EmptyValuesCountAsMissing(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		missing bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"false", false, true},
		{"zero", float64(0), true},
		{"text", "speaker", false},
		{"true", true, false},
		{"number", float64(3), false},
		{"array", []any{"A"}, false},
		{"empty array", []any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := []model.FormField{{FieldName: "answer", Required: true, IsActive: true}}
			err := ValidateSubmission(fields, map[string]any{"answer": tt.value})
			if tt.missing {
				require.Error(t, err)
				assert.Equal(t, []string{"answer"}, fault.ValidationFields(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
