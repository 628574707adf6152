// Package errs defines the error kinds surfaced by the completion engine.
//
// Callers wrap these sentinels with fmt.Errorf("...: %w", ...) and test for
// them with errors.Is.
package errs

import "errors"

var (
	// ErrNotFound means a habit or template does not exist or is not owned
	// by the acting user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation means the operation is not allowed for the habit's type.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrValidation means a malformed date key or an out-of-bound parameter.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means a concurrent write on the same ledger key won the race.
	ErrConflict = errors.New("conflict")
)

// Kind returns the short name of the error kind carried by err, or "internal"
// when err wraps none of the sentinels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// ExitCode maps an error to a process exit code. Kinds get distinct codes so
// scripts can tell a missing habit from a bad date.
func ExitCode(err error) int {
	switch Kind(err) {
	case "":
		return 0
	case "not_found":
		return 3
	case "invalid_operation":
		return 4
	case "validation":
		return 2
	case "conflict":
		return 5
	default:
		return 1
	}
}
