package form

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Tough-Day/conference-invites/fault"
	"github.com/Tough-Day/conference-invites/model"
)

// IncomingField is one entry of the desired field list submitted by an
// admin. ID references an existing field; a missing or unknown ID means a
// brand-new field.
type IncomingField struct {
	ID          string          `json:"id,omitempty"`
	FieldName   string          `json:"fieldName"`
	Label       string          `json:"label"`
	FieldType   model.FieldType `json:"fieldType"`
	Placeholder string          `json:"placeholder,omitempty"`
	Required    bool            `json:"required"`
	Options     []string        `json:"options,omitempty"`
	Validation  map[string]any  `json:"validation,omitempty"`
}

func (in IncomingField) config() model.ValidationConfig {
	if in.Options != nil {
		return model.OptionsConfig(in.Options)
	}
	return model.RulesConfig(in.Validation)
}

// Plan is the mutation set produced by Reconcile. It must be applied as one
// atomic unit: readers never observe a partially applied plan.
type Plan struct {
	// Replace indicates the fast path: delete every existing field and
	// insert Create. Only taken while the conference has no submissions.
	Replace bool
	// Retire lists existing field ids to mark inactive. Retired fields are
	// never deleted, to keep their historical submission data addressable.
	Retire []string
	// Update lists in-place field updates (same id, same fieldName).
	Update []model.FormField
	// Create lists new fields, including type-change versions.
	Create []model.FormField
}

var reVersionSuffix = regexp.MustCompile(`_v(\d+)$`)

// Reconcile computes the mutation plan for an edited field list.
//
// With no recorded submissions the whole field set is replaced destructively,
// in submitted order. Once submissions exist the plan preserves history:
// omitted fields are retired, unchanged-type fields are updated in place, and
// a type change retires the old field and creates a fresh one under a
// versioned name, back-referencing its predecessor. Order is reassigned
// densely from the submitted sequence either way.
//
// Malformed field types reject the whole batch before any mutation.
func Reconcile(existing []model.FormField, submissionCount int, incoming []IncomingField) (Plan, error) {
	if err := validateTypes(incoming); err != nil {
		return Plan{}, err
	}

	var plan Plan

	if submissionCount == 0 {
		plan.Replace = true
		for i, in := range incoming {
			plan.Create = append(plan.Create, newField(in, in.FieldName, i, ""))
		}
		return plan, nil
	}

	byID := make(map[string]model.FormField, len(existing))
	for _, f := range existing {
		byID[f.ID] = f
	}

	incomingIDs := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		if in.ID != "" {
			incomingIDs[in.ID] = true
		}
	}
	for _, f := range existing {
		if !incomingIDs[f.ID] {
			plan.Retire = append(plan.Retire, f.ID)
		}
	}

	// names covers every sibling ever created, including fields added
	// earlier in this same pass, so version numbers never collide.
	names := make([]string, 0, len(existing)+len(incoming))
	for _, f := range existing {
		names = append(names, f.FieldName)
	}

	for i, in := range incoming {
		ex, found := byID[in.ID]
		switch {
		case in.ID == "" || !found:
			f := newField(in, in.FieldName, i, "")
			plan.Create = append(plan.Create, f)
			names = append(names, f.FieldName)

		case ex.FieldType == in.FieldType:
			upd := ex
			upd.Label = in.Label
			upd.Placeholder = in.Placeholder
			upd.Required = in.Required
			upd.Order = i
			upd.Validation = in.config()
			plan.Update = append(plan.Update, upd)

		default:
			// Type change: the existing field keeps its identity and its
			// collected data, but goes inactive. A new field under a
			// versioned name receives the new type.
			plan.Retire = append(plan.Retire, ex.ID)
			name := nextVersionName(ex.FieldName, names)
			f := newField(in, name, i, ex.ID)
			plan.Create = append(plan.Create, f)
			names = append(names, name)
		}
	}

	return plan, nil
}

func validateTypes(incoming []IncomingField) error {
	var bad []string
	for _, in := range incoming {
		if !in.FieldType.Valid() {
			bad = append(bad, in.FieldName)
		}
	}
	if len(bad) > 0 {
		return fault.NewValidationError("invalid field type", bad...)
	}
	return nil
}

func newField(in IncomingField, fieldName string, order int, originalID string) model.FormField {
	return model.FormField{
		ID:              uuid.NewString(),
		FieldName:       fieldName,
		Label:           in.Label,
		FieldType:       in.FieldType,
		Placeholder:     in.Placeholder,
		Required:        in.Required,
		Order:           order,
		Validation:      in.config(),
		IsActive:        true,
		OriginalFieldID: originalID,
	}
}

// nextVersionName derives the versioned name for a type-changed field. The
// unsuffixed original counts as version 1, so the first duplicate becomes
// "_v2"; after that the highest sibling version plus one wins.
func nextVersionName(fieldName string, names []string) string {
	base := reVersionSuffix.ReplaceAllString(fieldName, "")

	next := 2
	for _, name := range names {
		if !strings.HasPrefix(name, base) {
			continue
		}
		m := reVersionSuffix.FindStringSubmatch(name)
		if m == nil || strings.TrimSuffix(name, m[0]) != base {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil && v+1 > next {
			next = v + 1
		}
	}
	return base + "_v" + strconv.Itoa(next)
}
