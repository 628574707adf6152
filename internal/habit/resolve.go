package habit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rnwolfe/tally/internal/errs"
)

// ResolveTemplate finds a template by id or by case-insensitive name.
func (s *Store) ResolveTemplate(ctx context.Context, userID, ref string) (*Template, error) {
	tpl, err := s.FindTemplate(ctx, ref, userID)
	if err == nil || !errors.Is(err, errs.ErrNotFound) {
		return tpl, err
	}

	templates, err := s.ListTemplates(ctx, userID)
	if err != nil {
		return nil, err
	}
	var match *Template
	for i := range templates {
		if !strings.EqualFold(templates[i].Name, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("template name %q is ambiguous, use its id: %w", ref, errs.ErrValidation)
		}
		match = &templates[i]
	}
	if match == nil {
		return nil, fmt.Errorf("template %q: %w", ref, errs.ErrNotFound)
	}
	return match, nil
}

// ResolveHabit finds a habit of templateID by id, or by case-insensitive
// name or unique name prefix.
func (s *Store) ResolveHabit(ctx context.Context, templateID, userID, ref string) (*Habit, error) {
	habits, err := s.ListHabits(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(ref))
	var prefixed []*Habit
	for i := range habits {
		h := &habits[i]
		if h.ID == ref || strings.ToLower(h.Name) == needle {
			return h, nil
		}
		if needle != "" && strings.HasPrefix(strings.ToLower(h.Name), needle) {
			prefixed = append(prefixed, h)
		}
	}

	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
		return nil, fmt.Errorf("habit %q: %w", ref, errs.ErrNotFound)
	default:
		return nil, fmt.Errorf("habit %q matches %d habits, be more specific: %w", ref, len(prefixed), errs.ErrValidation)
	}
}
