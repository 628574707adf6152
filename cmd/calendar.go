package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/ui"
)

var (
	calendarYear  int
	calendarHabit string
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Year heatmap of completions",
	Args:    cobra.NoArgs,
	RunE:    runCalendar,
}

func init() {
	calendarCmd.Flags().IntVarP(&calendarYear, "year", "y", 0, "Year to show (default: this year)")
	calendarCmd.Flags().StringVar(&calendarHabit, "habit", "", "Only show one habit")
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	year := calendarYear
	if year == 0 {
		t, err := day.Parse(a.today)
		if err != nil {
			return err
		}
		year = t.Year()
	}

	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		return err
	}
	habitID := ""
	title := tpl.Name
	if calendarHabit != "" {
		h, err := a.habits.ResolveHabit(ctx, tpl.ID, a.userID(), calendarHabit)
		if err != nil {
			return err
		}
		habitID = h.ID
		title = h.Icon + " " + h.Name
	}

	cal, err := a.stats.Calendar(ctx, a.userID(), tpl.ID, year, habitID)
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(cal)
	}

	counts := make(map[string]int, len(cal.Data))
	total := 0
	for _, d := range cal.Data {
		counts[d.Date] = d.Completions
		total += d.Completions
	}

	ui.Header(fmt.Sprintf("%s %d %s %s", ui.IconCalendar, year, ui.IconDot, title))
	fmt.Println()
	fmt.Print(ui.Heatmap(year, counts, ui.TermWidth(120)))
	fmt.Println()
	fmt.Println(ui.Muted.Render(fmt.Sprintf("  %d completions on %d days", total, len(cal.Data))))
	fmt.Println()
	return nil
}
