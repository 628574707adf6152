package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/config"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/store"
	"github.com/rnwolfe/tally/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check your tally setup for problems",
	Long:  `Run a suite of health checks and report what's working (and what isn't).`,
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

// checkResult holds the outcome of a single health check.
type checkResult struct {
	name    string
	ok      bool
	detail  string
	fixHint string
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = nil
	}

	results := []checkResult{
		checkConfig(),
		checkUser(cfg),
		checkStore(cfg),
		checkTemplate(cmdContext(cmd), cfg),
		checkLogs(),
	}

	fmt.Println()

	allPassed := true
	for _, r := range results {
		printCheck(r)
		if !r.ok {
			allPassed = false
		}
	}

	fmt.Println()

	if !allPassed {
		return fmt.Errorf("one or more checks failed, see suggestions above")
	}
	return nil
}

func printCheck(r checkResult) {
	label := fmt.Sprintf("%-16s", r.name)
	if r.ok {
		icon := ui.Success.Render(ui.IconOk)
		fmt.Printf("  %s %s %s\n", icon, ui.KeyStyle.Render(label), ui.Muted.Render(r.detail))
		return
	}
	icon := ui.Error.Render(ui.IconError)
	fmt.Printf("  %s %s %s\n", icon, ui.KeyStyle.Render(label), r.detail)
	if r.fixHint != "" {
		fmt.Printf("  %s %s %s\n", "  ", "                ", ui.Muted.Render(ui.IconArrow+" "+r.fixHint))
	}
}

func checkConfig() checkResult {
	if !config.Initialized() {
		return checkResult{
			name:    "Config",
			detail:  "config file not found",
			fixHint: fmt.Sprintf("Run %s to create it", ui.Accent.Render("tally init")),
		}
	}
	paths := config.GetPaths()
	if _, err := config.Load(); err != nil {
		return checkResult{
			name:    "Config",
			detail:  fmt.Sprintf("parse error: %v", err),
			fixHint: fmt.Sprintf("Check %s for syntax errors", paths.ConfigFile),
		}
	}
	return checkResult{
		name:   "Config",
		ok:     true,
		detail: paths.ConfigFile + " found and valid",
	}
}

func checkUser(cfg *config.Config) checkResult {
	if cfg == nil || cfg.User.ID == "" {
		return checkResult{
			name:    "User",
			detail:  "no user.id, the ledger has no owner",
			fixHint: fmt.Sprintf("Run %s to generate one", ui.Accent.Render("tally init")),
		}
	}
	return checkResult{
		name:   "User",
		ok:     true,
		detail: fmt.Sprintf("%s (%s)", cfg.User.Name, shortID(cfg.User.ID)),
	}
}

func checkStore(cfg *config.Config) checkResult {
	if cfg == nil {
		return checkResult{
			name:    "Store",
			detail:  "no usable config",
			fixHint: fmt.Sprintf("Run %s first", ui.Accent.Render("tally init")),
		}
	}
	db, err := store.Open(cfg)
	if err != nil {
		hint := "Check available disk space or the store.dsn path"
		if cfg.Store.Driver == config.DriverPostgres {
			hint = fmt.Sprintf("Check the server is up and %s is correct", ui.Accent.Render("store.dsn"))
		}
		return checkResult{
			name:    "Store",
			detail:  fmt.Sprintf("cannot open ledger: %v", err),
			fixHint: hint,
		}
	}
	defer db.Close()
	if err := db.Conn().Ping(); err != nil {
		return checkResult{
			name:   "Store",
			detail: fmt.Sprintf("ledger does not respond: %v", err),
		}
	}
	return checkResult{
		name:   "Store",
		ok:     true,
		detail: fmt.Sprintf("%s ledger opens and responds", db.Driver()),
	}
}

func checkTemplate(ctx context.Context, cfg *config.Config) checkResult {
	if cfg == nil || cfg.User.ID == "" {
		return checkResult{
			name:   "Template",
			detail: "skipped, no user",
		}
	}
	db, err := store.Open(cfg)
	if err != nil {
		return checkResult{
			name:   "Template",
			detail: "skipped, store unavailable",
		}
	}
	defer db.Close()

	hs := habit.NewStore(db)
	id, err := hs.ActiveTemplate(ctx, cfg.User.ID)
	if err == nil && id != "" {
		var tpl *habit.Template
		if tpl, err = hs.TemplateWithHabits(ctx, id, cfg.User.ID); err == nil {
			return checkResult{
				name:   "Template",
				ok:     true,
				detail: fmt.Sprintf("%s active with %d habits", tpl.Name, len(tpl.Habits)),
			}
		}
	}
	detail := "no active template"
	if err != nil {
		detail = err.Error()
	}
	return checkResult{
		name:    "Template",
		detail:  detail,
		fixHint: fmt.Sprintf("Run %s", ui.Accent.Render("tally template use <name>")),
	}
}

func checkLogs() checkResult {
	dir := config.GetPaths().LogDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return checkResult{
			name:    "Logs",
			detail:  fmt.Sprintf("cannot create %s: %v", dir, err),
			fixHint: "Check permissions on $XDG_STATE_HOME",
		}
	}
	return checkResult{
		name:   "Logs",
		ok:     true,
		detail: dir,
	}
}
