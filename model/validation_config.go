package model

import "encoding/json"

// ValidationConfig is the stored validation payload of a form field. It is a
// tagged union: choice fields carry an option list, everything else carries
// free-form rules. Exactly one arm is ever set.
type ValidationConfig struct {
	Options []string
	Rules   map[string]any
}

func OptionsConfig(options []string) ValidationConfig {
	return ValidationConfig{Options: options}
}

func RulesConfig(rules map[string]any) ValidationConfig {
	return ValidationConfig{Rules: rules}
}

func (v ValidationConfig) IsOptions() bool {
	return v.Options != nil
}

func (v ValidationConfig) IsZero() bool {
	return v.Options == nil && v.Rules == nil
}

// MarshalJSON produces the persisted shape: an options wrapper for choice
// fields, the rules object verbatim otherwise.
func (v ValidationConfig) MarshalJSON() ([]byte, error) {
	if v.IsOptions() {
		return json.Marshal(map[string]any{"options": v.Options})
	}
	return json.Marshal(v.Rules)
}

func (v *ValidationConfig) UnmarshalJSON(data []byte) error {
	var probe struct {
		Options []string `json:"options"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Options != nil {
		v.Options = probe.Options
		v.Rules = nil
		return nil
	}

	var rules map[string]any
	if err := json.Unmarshal(data, &rules); err != nil {
		return err
	}
	v.Options = nil
	v.Rules = rules
	return nil
}
