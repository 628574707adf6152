package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		code int
	}{
		{"nil", nil, "", 0},
		{"not found", fmt.Errorf("habit abc: %w", ErrNotFound), "not_found", 3},
		{"invalid op", fmt.Errorf("decrease: %w", ErrInvalidOperation), "invalid_operation", 4},
		{"validation", fmt.Errorf("date %q: %w", "2024-13-01", ErrValidation), "validation", 2},
		{"conflict", fmt.Errorf("create: %w", ErrConflict), "conflict", 5},
		{"other", errors.New("disk on fire"), "internal", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Kind(tc.err); got != tc.want {
				t.Errorf("Kind() = %q, want %q", got, tc.want)
			}
			if got := ExitCode(tc.err); got != tc.code {
				t.Errorf("ExitCode() = %d, want %d", got, tc.code)
			}
		})
	}
}
