package model

type FieldType string

const (
	FieldText     FieldType = "TEXT"
	FieldEmail    FieldType = "EMAIL"
	FieldPhone    FieldType = "PHONE"
	FieldURL      FieldType = "URL"
	FieldTextarea FieldType = "TEXTAREA"
	FieldSelect   FieldType = "SELECT"
	FieldCheckbox FieldType = "CHECKBOX"
	FieldRadio    FieldType = "RADIO"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldEmail, FieldPhone, FieldURL,
		FieldTextarea, FieldSelect, FieldCheckbox, FieldRadio:
		return true
	}
	return false
}

// HasOptions reports whether the type renders as a fixed choice list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldRadio
}
