package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewValidationError_Empty(t *testing.T) {
	if err := NewValidationError(nil); err != nil {
		t.Fatalf("expected nil for empty list, got %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError([]error{ErrNameRequired, ErrPriceNegative})
	want := "name is required; price must be non-negative"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		validation  bool
		notFound    bool
		unavailable bool
	}{
		{"validation", NewValidationError([]error{ErrNameRequired}), true, false, false},
		{"wrapped validation", fmt.Errorf("create: %w", NewValidationError([]error{ErrSizeRequired})), true, false, false},
		{"product not found", ErrProductNotFound, false, true, false},
		{"order not found wrapped", fmt.Errorf("get: %w", ErrOrderNotFound), false, true, false},
		{"store unavailable", fmt.Errorf("ping: %w", ErrStoreUnavailable), false, false, true},
		{"joined unavailable", errors.Join(ErrStoreUnavailable, errors.New("dial tcp")), false, false, true},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsStoreUnavailable(tt.err); got != tt.unavailable {
				t.Errorf("IsStoreUnavailable() = %v, want %v", got, tt.unavailable)
			}
		})
	}
}
