package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/stats"
	"github.com/rnwolfe/tally/internal/ui"
)

var (
	statsFrom dayValue
	statsTo   dayValue
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Completion totals, rates and streaks",
	Long: `Show totals, completion rates and streaks for the active template.

Without --from the range starts at the first recorded completion; without
--to it ends today. Totals count days checked off, not repeat counts.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Current and longest streak per habit",
	Args:  cobra.NoArgs,
	RunE:  runStreaks,
}

func init() {
	statsCmd.Flags().Var(&statsFrom, "from", "Start of the range (YYYY-MM-DD)")
	statsCmd.Flags().Var(&statsTo, "to", "End of the range (YYYY-MM-DD)")
	for _, c := range []*cobra.Command{statsCmd, streaksCmd, weeklyCmd, monthlyCmd, calendarCmd} {
		c.Flags().BoolVar(&statsJSON, "json", false, "Print JSON instead of a report")
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		return err
	}
	s, err := a.stats.Statistics(ctx, a.userID(), tpl.ID, stats.Range{Start: statsFrom.key, End: statsTo.key}, a.today)
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(s)
	}

	ui.Header(ui.IconChart + " " + tpl.Name)
	ui.Kv("Habits", fmt.Sprintf("%d", s.TotalHabits))
	ui.Kv("Completions", fmt.Sprintf("%d", s.TotalCompletions))
	ui.Kv("Active days", fmt.Sprintf("%d", s.TotalDaysTracked))
	ui.Kv("Rate", fmt.Sprintf("%s %.2f%%", ui.Bar(s.OverallCompletionRate, 20), s.OverallCompletionRate))
	ui.Kv("Per day", fmt.Sprintf("%.2f", s.AverageCompletionsPerDay))
	ui.Kv(ui.IconFire+" Current", pluralDays(s.CurrentStreak))
	ui.Kv(ui.IconStar+" Longest", pluralDays(s.LongestStreak))

	if len(s.Habits) == 0 {
		return nil
	}
	fmt.Println()
	for _, h := range s.Habits {
		last := ui.Muted.Render("never")
		if h.LastCompletionDate != nil {
			last = *h.LastCompletionDate
		}
		fmt.Printf("  %s %-20s %s %6.2f%%  %s %-4d %s\n",
			h.HabitIcon, h.HabitName,
			ui.Bar(h.CompletionRate, 12), h.CompletionRate,
			ui.IconFire, h.CurrentStreak,
			ui.Muted.Render("last "+last))
	}
	fmt.Println()
	return nil
}

func runStreaks(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		return err
	}
	streaks, err := a.stats.Streaks(ctx, a.userID(), tpl.ID, a.today)
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(streaks)
	}

	ui.Header(ui.IconFire + " Streaks " + ui.IconDot + " " + tpl.Name)
	if len(streaks) == 0 {
		fmt.Println(ui.Muted.Render("  No habits yet."))
		return nil
	}
	for _, s := range streaks {
		since := ""
		if s.StreakStartDate != nil {
			since = ui.Muted.Render("since " + *s.StreakStartDate)
		}
		fmt.Printf("  %s %-20s %-10s %s %-10s %s\n",
			s.HabitIcon, s.HabitName,
			pluralDays(s.CurrentStreak),
			ui.IconStar, pluralDays(s.LongestStreak),
			since)
	}
	fmt.Println()
	return nil
}
