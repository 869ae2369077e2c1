package model

import (
	"encoding/json"
	"time"
)

type Conference struct {
	ID               string      `json:"id,omitempty"`
	Slug             string      `json:"slug"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	FormInstructions string      `json:"formInstructions,omitempty"`
	LogoURL          string      `json:"logoUrl,omitempty"`
	PrimaryColor     string      `json:"primaryColor,omitempty"`
	FormURL          string      `json:"formUrl,omitempty"`
	ShortURL         string      `json:"shortUrl,omitempty"`
	IsActive         bool        `json:"isActive"`
	SchemaVersion    int         `json:"schemaVersion"`
	CreatedAt        time.Time   `json:"createdAt,omitempty"`
	FormFields       []FormField `json:"formFields"`
	SubmissionCount  *int        `json:"submissionCount,omitempty"`
}

// FormField is one column of a conference's registration form. Once a
// submission has been recorded, fields are only ever retired (IsActive =
// false), never deleted, so historical submission data stays addressable by
// FieldName.
type FormField struct {
	ID              string           `json:"id,omitempty"`
	ConferenceID    string           `json:"-"`
	FieldName       string           `json:"fieldName"`
	Label           string           `json:"label"`
	FieldType       FieldType        `json:"fieldType"`
	Placeholder     string           `json:"placeholder,omitempty"`
	Required        bool             `json:"required"`
	Order           int              `json:"order"`
	Validation      ValidationConfig `json:"-"`
	IsActive        bool             `json:"isActive"`
	OriginalFieldID string           `json:"originalFieldId,omitempty"`
}

// MarshalJSON projects the stored validation config into the outward shape:
// choice fields expose a top-level "options" array, every other field exposes
// its rules under "validation". Never both. An empty options list is still an
// options list and stays visible.
func (f FormField) MarshalJSON() ([]byte, error) {
	type alias FormField
	if f.Validation.IsOptions() {
		return json.Marshal(struct {
			alias
			Options []string `json:"options"`
		}{alias(f), f.Validation.Options})
	}
	return json.Marshal(struct {
		alias
		Validation map[string]any `json:"validation,omitempty"`
	}{alias(f), f.Validation.Rules})
}

// Submission stores the submitted form data verbatim as a flat
// fieldName -> value mapping. It is never normalized against field identity.
type Submission struct {
	ID           string         `json:"id"`
	ConferenceID string         `json:"conferenceId"`
	FormData     map[string]any `json:"formData"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
}

type EventType string

const (
	EventPageView   EventType = "PAGE_VIEW"
	EventQRScan     EventType = "QR_SCAN"
	EventFormSubmit EventType = "FORM_SUBMIT"
)

func (t EventType) Valid() bool {
	switch t {
	case EventPageView, EventQRScan, EventFormSubmit:
		return true
	}
	return false
}

// AnalyticsEvent is an append-only fact. Normal flow never mutates or
// deletes one.
type AnalyticsEvent struct {
	ID           string         `json:"id"`
	ConferenceID string         `json:"conferenceId"`
	EventType    EventType      `json:"eventType"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}
