package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorCarriesFields(t *testing.T) {
	err := NewValidationError("missing required fields", "email", "name")

	if !IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	fields := ValidationFields(err)
	if len(fields) != 2 || fields[0] != "email" || fields[1] != "name" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestFaultUnwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewInternalError("db.insert", cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause to be reachable via errors.Is")
	}
	if IsValidationError(err) {
		t.Errorf("internal error must not classify as validation")
	}
}

func TestWrappedValidationErrorStillClassifies(t *testing.T) {
	err := fmt.Errorf("reconcile: %w", NewValidationError("invalid field type", "pets"))

	if !IsValidationError(err) {
		t.Errorf("expected classification to survive wrapping")
	}
	if fields := ValidationFields(err); len(fields) != 1 || fields[0] != "pets" {
		t.Errorf("unexpected fields: %v", fields)
	}
}
