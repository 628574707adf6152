// Package habit manages templates and the habits grouped in them.
//
// Every lookup is scoped to the acting user: a template or habit owned by
// someone else is reported as errs.ErrNotFound, the same as one that does not
// exist.
package habit

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rnwolfe/tally/internal/errs"
)

// Type decides how completions of a habit behave.
type Type string

const (
	// OncePerDay habits are either done or not done on a given day.
	OncePerDay Type = "once_per_day"
	// Repeatable habits count how many times they were done on a day.
	Repeatable Type = "repeatable"
)

// Field limits.
const (
	MaxNameLen        = 100
	MaxDescriptionLen = 500
)

// ParseType accepts the stored names plus short aliases used on the command line.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once", "once_per_day", "daily":
		return OncePerDay, nil
	case "repeatable", "repeat", "counter":
		return Repeatable, nil
	default:
		return "", fmt.Errorf("unknown habit type %q (use once or repeatable): %w", s, errs.ErrValidation)
	}
}

// Label is the human-readable name of the type.
func (t Type) Label() string {
	if t == Repeatable {
		return "repeatable"
	}
	return "once per day"
}

// Template is a named collection of habits owned by a user.
type Template struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	// Habits is only populated by TemplateWithHabits.
	Habits []Habit
}

// Habit belongs to exactly one template. Its Type never changes after creation.
type Habit struct {
	ID          string
	TemplateID  string
	Icon        string
	Name        string
	Description string
	Type        Type
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRepeatable reports whether completions of h are counted.
func (h Habit) IsRepeatable() bool {
	return h.Type == Repeatable
}

// NewHabit is the payload for AddHabit.
type NewHabit struct {
	Icon        string
	Name        string
	Description string
	Type        Type
}

// Update changes the mutable fields of a habit. Nil fields are left alone.
type Update struct {
	Icon        *string
	Name        *string
	Description *string
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required: %w", errs.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", fmt.Errorf("name must be at most %d characters: %w", MaxNameLen, errs.ErrValidation)
	}
	return name, nil
}

func validateIcon(icon string) (string, error) {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return "", fmt.Errorf("icon is required: %w", errs.ErrValidation)
	}
	return icon, nil
}

func validateDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return "", fmt.Errorf("description must be at most %d characters: %w", MaxDescriptionLen, errs.ErrValidation)
	}
	return desc, nil
}
