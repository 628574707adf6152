package habit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/store"
)

// Store handles template and habit persistence.
type Store struct {
	db  *store.DB
	now func() time.Time
}

// NewStore creates a new habit store.
func NewStore(db *store.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func activeTemplateKey(userID string) string {
	return "active_template:" + userID
}

// --- templates ---

// CreateTemplate creates an empty template owned by userID.
func (s *Store) CreateTemplate(ctx context.Context, userID, name string) (*Template, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tpl := &Template{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	_, err = s.db.Conn().ExecContext(ctx, s.db.Rebind(
		`INSERT INTO templates (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`),
		tpl.ID, tpl.UserID, tpl.Name, store.Timestamp(now), store.Timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	return tpl, nil
}

// ListTemplates returns the user's templates, oldest first.
func (s *Store) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	rows, err := s.db.Conn().QueryContext(ctx, s.db.Rebind(
		`SELECT id, user_id, name, created_at, updated_at
		 FROM templates WHERE user_id = ? ORDER BY created_at, name`), userID)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tpl)
	}
	return templates, rows.Err()
}

// FindTemplate returns a single template owned by userID.
func (s *Store) FindTemplate(ctx context.Context, id, userID string) (*Template, error) {
	row := s.db.Conn().QueryRowContext(ctx, s.db.Rebind(
		`SELECT id, user_id, name, created_at, updated_at
		 FROM templates WHERE id = ? AND user_id = ?`), id, userID)
	tpl, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting template %s: %w", id, err)
	}
	return tpl, nil
}

// TemplateWithHabits returns the template with its habits populated.
func (s *Store) TemplateWithHabits(ctx context.Context, id, userID string) (*Template, error) {
	tpl, err := s.FindTemplate(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	tpl.Habits, err = s.listHabits(ctx, id)
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// RenameTemplate changes a template's name.
func (s *Store) RenameTemplate(ctx context.Context, id, userID, name string) (*Template, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	res, err := s.db.Conn().ExecContext(ctx, s.db.Rebind(
		`UPDATE templates SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`),
		name, store.Timestamp(s.now()), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("renaming template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("template %s: %w", id, errs.ErrNotFound)
	}
	return s.FindTemplate(ctx, id, userID)
}

// DeleteTemplate removes a template, its habits and their completions.
// If it was the user's active template, the user is left with none.
func (s *Store) DeleteTemplate(ctx context.Context, id, userID string) error {
	res, err := s.db.Conn().ExecContext(ctx, s.db.Rebind(
		`DELETE FROM templates WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", id, errs.ErrNotFound)
	}

	active, err := s.ActiveTemplate(ctx, userID)
	if err != nil {
		return err
	}
	if active == id {
		return s.db.DeleteKV(ctx, activeTemplateKey(userID))
	}
	return nil
}

// SetActiveTemplate records templateID as the user's active template. An
// empty templateID clears it.
func (s *Store) SetActiveTemplate(ctx context.Context, userID, templateID string) error {
	if templateID == "" {
		return s.db.DeleteKV(ctx, activeTemplateKey(userID))
	}
	if _, err := s.FindTemplate(ctx, templateID, userID); err != nil {
		return err
	}
	return s.db.SetKV(ctx, activeTemplateKey(userID), templateID)
}

// ActiveTemplate returns the user's active template id, or "" if none is set.
func (s *Store) ActiveTemplate(ctx context.Context, userID string) (string, error) {
	id, _, err := s.db.GetKV(ctx, activeTemplateKey(userID))
	return id, err
}

// --- habits ---

// AddHabit creates a habit in a template owned by userID.
func (s *Store) AddHabit(ctx context.Context, templateID, userID string, nh NewHabit) (*Habit, error) {
	if _, err := s.FindTemplate(ctx, templateID, userID); err != nil {
		return nil, err
	}

	name, err := validateName(nh.Name)
	if err != nil {
		return nil, err
	}
	icon, err := validateIcon(nh.Icon)
	if err != nil {
		return nil, err
	}
	desc, err := validateDescription(nh.Description)
	if err != nil {
		return nil, err
	}
	typ := nh.Type
	if typ == "" {
		typ = OncePerDay
	}
	if typ != OncePerDay && typ != Repeatable {
		return nil, fmt.Errorf("unknown habit type %q: %w", typ, errs.ErrValidation)
	}

	now := s.now()
	h := &Habit{
		ID:          uuid.New().String(),
		TemplateID:  templateID,
		Icon:        icon,
		Name:        name,
		Description: desc,
		Type:        typ,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	_, err = s.db.Conn().ExecContext(ctx, s.db.Rebind(
		`INSERT INTO habits (id, template_id, icon, name, description, type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		h.ID, h.TemplateID, h.Icon, h.Name, nullString(h.Description), string(h.Type),
		store.Timestamp(now), store.Timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("adding habit: %w", err)
	}
	return h, nil
}

// FindHabit returns a habit whose template is owned by userID.
func (s *Store) FindHabit(ctx context.Context, id, userID string) (*Habit, error) {
	row := s.db.Conn().QueryRowContext(ctx, s.db.Rebind(
		`SELECT h.id, h.template_id, h.icon, h.name, h.description, h.type, h.created_at, h.updated_at
		 FROM habits h JOIN templates t ON t.id = h.template_id
		 WHERE h.id = ? AND t.user_id = ?`), id, userID)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting habit %s: %w", id, err)
	}
	return h, nil
}

// ListHabits returns the habits of a template owned by userID, oldest first.
func (s *Store) ListHabits(ctx context.Context, templateID, userID string) ([]Habit, error) {
	if _, err := s.FindTemplate(ctx, templateID, userID); err != nil {
		return nil, err
	}
	return s.listHabits(ctx, templateID)
}

func (s *Store) listHabits(ctx context.Context, templateID string) ([]Habit, error) {
	rows, err := s.db.Conn().QueryContext(ctx, s.db.Rebind(
		`SELECT id, template_id, icon, name, description, type, created_at, updated_at
		 FROM habits WHERE template_id = ? ORDER BY created_at, name`), templateID)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// UpdateHabit applies u to a habit owned by userID.
func (s *Store) UpdateHabit(ctx context.Context, id, userID string, u Update) (*Habit, error) {
	h, err := s.FindHabit(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		if h.Name, err = validateName(*u.Name); err != nil {
			return nil, err
		}
	}
	if u.Icon != nil {
		if h.Icon, err = validateIcon(*u.Icon); err != nil {
			return nil, err
		}
	}
	if u.Description != nil {
		if h.Description, err = validateDescription(*u.Description); err != nil {
			return nil, err
		}
	}

	now := s.now()
	_, err = s.db.Conn().ExecContext(ctx, s.db.Rebind(
		`UPDATE habits SET icon = ?, name = ?, description = ?, updated_at = ? WHERE id = ?`),
		h.Icon, h.Name, nullString(h.Description), store.Timestamp(now), h.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating habit: %w", err)
	}
	h.UpdatedAt = now.UTC()
	return h, nil
}

// DeleteHabit removes a habit and its completions.
func (s *Store) DeleteHabit(ctx context.Context, id, userID string) error {
	if _, err := s.FindHabit(ctx, id, userID); err != nil {
		return err
	}
	if _, err := s.db.Conn().ExecContext(ctx, s.db.Rebind(`DELETE FROM habits WHERE id = ?`), id); err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	return nil
}

// --- scanning ---

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(sc scanner) (*Template, error) {
	var tpl Template
	var created, updated string
	if err := sc.Scan(&tpl.ID, &tpl.UserID, &tpl.Name, &created, &updated); err != nil {
		return nil, err
	}
	tpl.CreatedAt = store.ParseTimestamp(created)
	tpl.UpdatedAt = store.ParseTimestamp(updated)
	return &tpl, nil
}

func scanHabit(sc scanner) (*Habit, error) {
	var h Habit
	var desc sql.NullString
	var typ, created, updated string
	if err := sc.Scan(&h.ID, &h.TemplateID, &h.Icon, &h.Name, &desc, &typ, &created, &updated); err != nil {
		return nil, err
	}
	h.Description = desc.String
	h.Type = Type(typ)
	h.CreatedAt = store.ParseTimestamp(created)
	h.UpdatedAt = store.ParseTimestamp(updated)
	return &h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
