package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/config"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/store"
	"github.com/rnwolfe/tally/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up tally for the first time",
	Long:  `Initialize tally: writes the config file, creates the database and your first template. Safe to re-run.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	return runInitWithReader(cmdContext(cmd), bufio.NewReader(os.Stdin))
}

func runInitWithReader(ctx context.Context, reader *bufio.Reader) error {
	fmt.Println(ui.Title.Render(ui.IconTally + "Welcome to tally!"))
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.User.Name = prompt(reader, "  What should I call you?", cfg.User.Name)
	fmt.Println()

	// The id owns every ledger row, so an existing one is never replaced.
	if cfg.User.ID == "" {
		cfg.User.ID = uuid.New().String()
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	db, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	hs := habit.NewStore(db)
	active, err := hs.ActiveTemplate(ctx, cfg.User.ID)
	if err != nil {
		return err
	}
	if active == "" {
		name := prompt(reader, "  Name your first habit template:", "Daily")
		fmt.Println()
		tpl, err := hs.CreateTemplate(ctx, cfg.User.ID, name)
		if err != nil {
			return err
		}
		if err := hs.SetActiveTemplate(ctx, cfg.User.ID, tpl.ID); err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("Created template %q", tpl.Name))
	}

	paths := config.GetPaths()
	ui.Ok("Config saved to " + paths.ConfigFile)
	if cfg.Store.Driver == config.DriverSQLite && cfg.Store.DSN == "" {
		ui.Ok("Ledger at " + paths.DBFile)
	}
	ui.Tip("`tally habit add Read --icon 📖` to add your first habit.")
	fmt.Println()
	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s %s ", question, ui.Muted.Render(fmt.Sprintf("(%s)", defaultVal)))
	} else {
		fmt.Printf("%s ", question)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// confirm asks a yes/no question, defaulting to no.
func confirm(reader *bufio.Reader, question string) bool {
	answer := prompt(reader, question+" [y/N]", "")
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
