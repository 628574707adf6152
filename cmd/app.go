package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/completion"
	"github.com/rnwolfe/tally/internal/config"
	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ledger"
	"github.com/rnwolfe/tally/internal/logger"
	"github.com/rnwolfe/tally/internal/stats"
	"github.com/rnwolfe/tally/internal/store"
	"github.com/rnwolfe/tally/internal/ui"
)

// app bundles what a command needs once tally is initialized.
type app struct {
	cfg     *config.Config
	db      *store.DB
	habits  *habit.Store
	ledger  *ledger.SQLStore
	mutator *completion.Mutator
	stats   *stats.Engine
	today   string
}

// openApp loads config, starts logging and opens the store.
func openApp() (*app, error) {
	if !config.Initialized() {
		return nil, fmt.Errorf("tally is not set up yet, run %s", ui.Accent.Render("tally init"))
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.User.ID == "" {
		return nil, fmt.Errorf("config has no user.id, run %s", ui.Accent.Render("tally init"))
	}
	if !cfg.UI.ColorEnabled() {
		ui.SetColor(false)
	}

	paths := config.GetPaths()
	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: paths.LogDir}); err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}

	db, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("store opened", "driver", db.Driver())

	hs := habit.NewStore(db)
	l := ledger.NewSQLStore(db)
	return &app{
		cfg:     cfg,
		db:      db,
		habits:  hs,
		ledger:  l,
		mutator: completion.New(hs, l),
		stats:   stats.New(hs, l),
		today:   todayKey(),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) userID() string {
	return a.cfg.User.ID
}

// selectTemplate returns the template named by ref, or the active one when ref is
// empty.
func (a *app) selectTemplate(ctx context.Context, ref string) (*habit.Template, error) {
	if ref != "" {
		return a.habits.ResolveTemplate(ctx, a.userID(), ref)
	}
	id, err := a.habits.ActiveTemplate(ctx, a.userID())
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("no active template, create one with %s: %w",
			ui.Accent.Render("tally template add <name>"), errs.ErrNotFound)
	}
	return a.habits.FindTemplate(ctx, id, a.userID())
}

// resolveHabit resolves ref within the selected template.
func (a *app) resolveHabit(ctx context.Context, ref string) (*habit.Template, *habit.Habit, error) {
	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		return nil, nil, err
	}
	h, err := a.habits.ResolveHabit(ctx, tpl.ID, a.userID(), ref)
	if err != nil {
		return nil, nil, err
	}
	return tpl, h, nil
}

// todayKey is the --today flag or the local date.
func todayKey() string {
	if todayFlag.key != "" {
		return todayFlag.key
	}
	return day.Today(time.Now())
}

func cmdContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
