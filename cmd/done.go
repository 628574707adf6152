package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ledger"
	"github.com/rnwolfe/tally/internal/ui"
)

var doneCmd = &cobra.Command{
	Use:   "done <habit>",
	Short: "Check off a habit for today",
	Long: `Check off a habit for today (or the --today date).

Once-per-day habits toggle: running done twice un-checks the day.
Repeatable habits count up by one each time; use undo to count down.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var undoCmd = &cobra.Command{
	Use:   "undo <habit>",
	Short: "Count a repeatable habit down by one",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndo,
}

func runDone(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	_, h, err := a.resolveHabit(ctx, args[0])
	if err != nil {
		return err
	}
	c, err := a.mutator.Toggle(ctx, a.userID(), h.ID, a.today)
	if err != nil {
		return err
	}
	reportCompletion(h, c, a.today)
	return nil
}

func runUndo(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	_, h, err := a.resolveHabit(ctx, args[0])
	if err != nil {
		return err
	}
	c, err := a.mutator.Decrease(ctx, a.userID(), h.ID, a.today)
	if err != nil {
		return err
	}
	reportCompletion(h, c, a.today)
	return nil
}

func reportCompletion(h *habit.Habit, c *ledger.Completion, date string) {
	switch {
	case h.IsRepeatable():
		ui.Ok(fmt.Sprintf("%s %s: %d on %s", h.Icon, h.Name, countOf(c), date))
	case c != nil:
		ui.Ok(fmt.Sprintf("%s %s done for %s", h.Icon, h.Name, date))
	default:
		ui.Inf(fmt.Sprintf("%s %s unchecked for %s", h.Icon, h.Name, date))
	}
}

// countOf treats a missing row as zero completions.
func countOf(c *ledger.Completion) int {
	if c == nil {
		return 0
	}
	return c.Count
}
