package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/ui"
)

var (
	weeklyWeeks   int
	monthlyMonths int
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Week-by-week completion rollup",
	Args:  cobra.NoArgs,
	RunE:  runWeekly,
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Month-by-month completion rollup",
	Args:  cobra.NoArgs,
	RunE:  runMonthly,
}

func init() {
	weeklyCmd.Flags().IntVarP(&weeklyWeeks, "weeks", "w", 0, "Number of weeks (1-52, default from config)")
	monthlyCmd.Flags().IntVarP(&monthlyMonths, "months", "m", 0, "Number of months (1-24, default from config)")
}

func runWeekly(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	n := weeklyWeeks
	if cmd == nil || !cmd.Flags().Changed("weeks") {
		n = a.cfg.Stats.Weeks
	}
	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		return err
	}
	weeks, err := a.stats.Weekly(ctx, a.userID(), tpl.ID, n, a.today)
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(weeks)
	}

	ui.Header(fmt.Sprintf("%s Last %d weeks %s %s", ui.IconChart, n, ui.IconDot, tpl.Name))
	for _, w := range weeks {
		fmt.Printf("  %s – %s  %s %6.2f%%  %s\n",
			shortDate(w.WeekStart), shortDate(w.WeekEnd),
			ui.Bar(w.CompletionRate, 20), w.CompletionRate,
			ui.Muted.Render(fmt.Sprintf("%d done", w.TotalCompletions)))
	}
	fmt.Println()
	return nil
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	n := monthlyMonths
	if cmd == nil || !cmd.Flags().Changed("months") {
		n = a.cfg.Stats.Months
	}
	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		return err
	}
	months, err := a.stats.Monthly(ctx, a.userID(), tpl.ID, n, a.today)
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(months)
	}

	ui.Header(fmt.Sprintf("%s Last %d months %s %s", ui.IconChart, n, ui.IconDot, tpl.Name))
	for _, m := range months {
		best := ""
		if m.BestDay != nil {
			best = ui.Muted.Render(fmt.Sprintf("best %s (%d)", shortDate(m.BestDay.Date), m.BestDay.Completions))
		}
		fmt.Printf("  %-14s %s %6.2f%%  %s  %s\n",
			m.MonthName, ui.Bar(m.CompletionRate, 20), m.CompletionRate,
			ui.Muted.Render(fmt.Sprintf("%.2f/day", m.AverageCompletionsPerDay)), best)
	}
	fmt.Println()
	return nil
}

// shortDate renders a day key as "Jan 02", or the key itself if malformed.
func shortDate(key string) string {
	t, err := day.Parse(key)
	if err != nil {
		return key
	}
	return t.Format("Jan 02")
}
