package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/config"
	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/streak"
	"github.com/rnwolfe/tally/internal/tips"
	"github.com/rnwolfe/tally/internal/ui"
	"github.com/rnwolfe/tally/internal/version"
)

var (
	todayFlag    dayValue
	templateFlag string
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Track daily habits, streaks and completion stats",
	Long:  `tally keeps a per-day ledger of habit completions and turns it into streaks, rates and heatmaps.`,
	RunE:  runSummary,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits with a code derived from the error kind.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(errs.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().Var(&todayFlag, "today", "Treat this date (YYYY-MM-DD) as today")
	rootCmd.PersistentFlags().StringVarP(&templateFlag, "template", "t", "", "Template to use instead of the active one")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(monthlyCmd)
	rootCmd.AddCommand(streaksCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// runSummary shows the at-a-glance status when you just type `tally`.
func runSummary(cmd *cobra.Command, _ []string) error {
	if !config.Initialized() {
		fmt.Println(ui.Greet(""))
		fmt.Println()
		fmt.Println("  Looks like this is your first time. Let's set things up!")
		fmt.Println()
		fmt.Printf("  Run %s to get started.\n", ui.Accent.Render("tally init"))
		fmt.Println()
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	fmt.Println(ui.Greet(a.cfg.User.Name))
	fmt.Println()

	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		ui.Kv("Template", ui.Muted.Render("none"))
		ui.Tip("`tally template add Daily` to create your first template.")
		fmt.Println()
		return nil
	}
	habits, err := a.habits.ListHabits(ctx, tpl.ID, a.userID())
	if err != nil {
		return err
	}
	counts, err := a.stats.CountsForDate(ctx, a.userID(), a.today)
	if err != nil {
		return err
	}

	done := 0
	for _, h := range habits {
		if counts[h.ID] > 0 {
			done++
		}
	}
	streaks, err := a.stats.Streaks(ctx, a.userID(), tpl.ID, a.today)
	if err != nil {
		return err
	}
	best := 0
	for _, s := range streaks {
		if s.CurrentStreak > best {
			best = s.CurrentStreak
		}
	}

	ui.Kv("Template", tpl.Name)
	ui.Kv(ui.IconCalendar+" Today", fmt.Sprintf("%s  %d/%d done", a.today, done, len(habits)))
	if best > 0 {
		ui.Kv(ui.IconFire+" Streak", pluralDays(best))
	}
	ui.Kv("Version", version.Short())

	switch {
	case len(habits) == 0:
		ui.Tip("`tally habit add <name>` to add a habit.")
	case done < len(habits):
		ui.Tip("`tally today -i` to check things off.")
	default:
		ui.Ok("All done for today.")
		if t, err := day.Parse(a.today); err == nil {
			ui.Tip(tips.Daily(t))
		}
	}
	fmt.Println()
	return nil
}

func pluralDays(n int) string {
	s := fmt.Sprintf("%d day", n)
	if n != 1 {
		s += "s"
	}
	if n >= streak.MaxLookback {
		s += "+"
	}
	return s
}
