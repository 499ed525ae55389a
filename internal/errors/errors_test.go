package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("loading budget: %w", Wrap(ErrInternalServer, cause))

	if !errors.Is(err, ErrInternalServer) {
		t.Error("expected wrapped error to match its sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match its cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("expected no match for a different code")
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidInput, "amount_cents: must not be zero")

	if err.Message != "amount_cents: must not be zero" || err.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected error %+v", err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected custom message to keep the sentinel code")
	}
	if ErrInvalidInput.Message != "Invalid input" {
		t.Error("sentinel must not be modified")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrBudgetNotFound, "BUDGET_NOT_FOUND"},
		{"wrapped", fmt.Errorf("ctx: %w", Wrap(ErrCategoryInUse, nil)), "CATEGORY_IN_USE"},
		{"plain", errors.New("boom"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
