package testutil

import (
	"testing"

	apperrors "budgetwise/internal/errors"
)

// AssertAppError fails unless err carries an AppError with code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %s, got nil", code)
	}
	got := apperrors.CodeOf(err)
	if got == "" {
		t.Fatalf("expected error %s, got non-AppError %T: %v", code, err, err)
	}
	if got != code {
		t.Errorf("expected error %s, got %s (%v)", code, got, err)
	}
}

// AssertNoError stops the test on a non-nil err.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertCents compares two amounts in minor units, naming what was measured.
func AssertCents(t *testing.T, what string, got, want int64) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %d cents, want %d", what, got, want)
	}
}
