package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/tui"
	"github.com/rnwolfe/tally/internal/ui"
)

var todayInteractive bool

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's checklist",
	Long:  `Show the active template's habits for today. With -i on a terminal, check them off interactively.`,
	RunE:  runToday,
}

func init() {
	todayCmd.Flags().BoolVarP(&todayInteractive, "interactive", "i", false, "Open the interactive checklist")
}

// checklistActions drives the mutator from the checklist for one day.
type checklistActions struct {
	ctx  context.Context
	app  *app
	date string
}

func (c checklistActions) Toggle(habitID string) (int, error) {
	comp, err := c.app.mutator.Toggle(c.ctx, c.app.userID(), habitID, c.date)
	return countOf(comp), err
}

func (c checklistActions) Decrease(habitID string) (int, error) {
	comp, err := c.app.mutator.Decrease(c.ctx, c.app.userID(), habitID, c.date)
	return countOf(comp), err
}

func runToday(cmd *cobra.Command, _ []string) error {
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
	habits, err := a.habits.ListHabits(ctx, tpl.ID, a.userID())
	if err != nil {
		return err
	}
	counts, err := a.stats.CountsForDate(ctx, a.userID(), a.today)
	if err != nil {
		return err
	}

	rows := make([]tui.Row, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, tui.Row{
			HabitID:    h.ID,
			Icon:       h.Icon,
			Name:       h.Name,
			Repeatable: h.IsRepeatable(),
			Count:      counts[h.ID],
		})
	}

	if todayInteractive && len(rows) > 0 {
		if !tui.IsTTY() || !ui.IsStdoutTTY() {
			ui.Warn("not a terminal, showing the plain list")
		} else {
			rows, err = tui.RunChecklist(tpl.Name, a.today, rows, checklistActions{ctx: ctx, app: a, date: a.today})
			if err != nil {
				return err
			}
		}
	}

	printChecklist(tpl.Name, a.today, rows)
	return nil
}

func printChecklist(title, date string, rows []tui.Row) {
	ui.Header(fmt.Sprintf("%s %s %s", title, ui.IconDot, date))
	if len(rows) == 0 {
		fmt.Println(ui.Muted.Render("  No habits yet."))
		ui.Tip("`tally habit add <name>` to add one.")
		return
	}

	done := 0
	for _, r := range rows {
		mark := ui.Muted.Render("[ ]")
		if r.Count > 0 {
			mark = ui.Success.Render("[x]")
			done++
		}
		line := fmt.Sprintf("  %s %s %s", mark, r.Icon, r.Name)
		if r.Repeatable {
			line += "  " + ui.Muted.Render(fmt.Sprintf("×%d", r.Count))
		}
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Println(ui.Muted.Render(fmt.Sprintf("  %d/%d done", done, len(rows))))
}
