package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationConfig_RoundTrip(t *testing.T) {
	opts := OptionsConfig([]string{"A", "B"})
	b, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"options":["A","B"]}`, string(b))

	var back ValidationConfig
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.IsOptions())
	assert.Equal(t, []string{"A", "B"}, back.Options)
	assert.Nil(t, back.Rules)

	rules := RulesConfig(map[string]any{"minLength": float64(3)})
	b, err = json.Marshal(rules)
	require.NoError(t, err)

	back = ValidationConfig{}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.False(t, back.IsOptions())
	assert.Equal(t, map[string]any{"minLength": float64(3)}, back.Rules)
}

// Outward projection: every field shape carries options or validation,
// never both, on every endpoint that renders fields.
func TestFormFieldJSON_OptionsValidationExclusive(t *testing.T) {
	choice := FormField{
		ID:         "f1",
		FieldName:  "role",
		FieldType:  FieldSelect,
		Validation: OptionsConfig([]string{"A", "B"}),
		IsActive:   true,
	}
	b, err := json.Marshal(choice)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Contains(t, out, "options")
	assert.NotContains(t, out, "validation")
	assert.NotContains(t, out, "validationConfig")

	// an options list with no entries yet is still the options arm
	var emptyOpts ValidationConfig
	require.NoError(t, json.Unmarshal([]byte(`{"options":[]}`), &emptyOpts))
	require.True(t, emptyOpts.IsOptions())

	b, err = json.Marshal(FormField{
		ID:         "f1b",
		FieldName:  "role",
		FieldType:  FieldSelect,
		Validation: emptyOpts,
		IsActive:   true,
	})
	require.NoError(t, err)

	out = map[string]any{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, []any{}, out["options"])
	assert.NotContains(t, out, "validation")

	free := FormField{
		ID:         "f2",
		FieldName:  "bio",
		FieldType:  FieldTextarea,
		Validation: RulesConfig(map[string]any{"maxLength": float64(500)}),
		IsActive:   true,
	}
	b, err = json.Marshal(free)
	require.NoError(t, err)

	out = map[string]any{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Contains(t, out, "validation")
	assert.NotContains(t, out, "options")
}

func TestFormFieldJSON_VersionedFieldExposesPredecessor(t *testing.T) {
	f := FormField{
		ID:              "f3",
		FieldName:       "role_v2",
		FieldType:       FieldSelect,
		Validation:      OptionsConfig([]string{"A"}),
		IsActive:        true,
		OriginalFieldID: "f-role",
	}
	b, err := json.Marshal(f)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "f-role", out["originalFieldId"])
}

func TestFieldType_Valid(t *testing.T) {
	for _, ft := range []FieldType{
		FieldText, FieldEmail, FieldPhone, FieldURL,
		FieldTextarea, FieldSelect, FieldCheckbox, FieldRadio,
	} {
		assert.True(t, ft.Valid(), string(ft))
	}
	assert.False(t, FieldType("BANANA").Valid())
	assert.False(t, FieldType("").Valid())
}
