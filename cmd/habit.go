package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ui"
)

var (
	habitIcon  string
	habitType  string
	habitDesc  string
	habitRmYes bool

	// edit has its own flags so their defaults do not clobber add's.
	editName string
	editIcon string
	editDesc string
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage the habits in a template",
	RunE:  runHabitList,
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit to the active template",
	Long: `Add a habit. Types:
  once        done or not done each day (default)
  repeatable  counts how many times it was done each day`,
	Args: cobra.ExactArgs(1),
	RunE: runHabitAdd,
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits in the active template",
	RunE:    runHabitList,
}

var habitEditCmd = &cobra.Command{
	Use:   "edit <habit>",
	Short: "Change a habit's name, icon or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitEdit,
}

var habitRmCmd = &cobra.Command{
	Use:     "rm <habit>",
	Aliases: []string{"delete"},
	Short:   "Delete a habit and its history",
	Args:    cobra.ExactArgs(1),
	RunE:    runHabitRm,
}

func init() {
	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitEditCmd)
	habitCmd.AddCommand(habitRmCmd)

	habitAddCmd.Flags().StringVarP(&habitIcon, "icon", "i", "•", "Icon shown next to the habit")
	habitAddCmd.Flags().StringVar(&habitType, "type", "once", "Habit type (once, repeatable)")
	habitAddCmd.Flags().StringVarP(&habitDesc, "desc", "d", "", "Optional description")

	habitEditCmd.Flags().StringVarP(&editName, "name", "n", "", "New name")
	habitEditCmd.Flags().StringVarP(&editIcon, "icon", "i", "", "New icon")
	habitEditCmd.Flags().StringVarP(&editDesc, "desc", "d", "", "New description (empty clears it)")

	habitRmCmd.Flags().BoolVarP(&habitRmYes, "yes", "y", false, "Skip confirmation")
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	typ, err := habit.ParseType(habitType)
	if err != nil {
		return err
	}
	tpl, err := a.selectTemplate(ctx, templateFlag)
	if err != nil {
		return err
	}
	h, err := a.habits.AddHabit(ctx, tpl.ID, a.userID(), habit.NewHabit{
		Icon:        habitIcon,
		Name:        args[0],
		Description: habitDesc,
		Type:        typ,
	})
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Added %s %s to %s (%s)", h.Icon, h.Name, tpl.Name, h.Type.Label()))
	return nil
}

func runHabitList(cmd *cobra.Command, _ []string) error {
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
	if len(habits) == 0 {
		fmt.Println(ui.Muted.Render("  No habits in " + tpl.Name + " yet."))
		ui.Tip("`tally habit add <name>` to add one.")
		return nil
	}
	for _, h := range habits {
		fmt.Printf("  %s %-24s %s  %s\n", h.Icon, h.Name,
			ui.Muted.Render(fmt.Sprintf("%-12s", h.Type.Label())), ui.Muted.Render(shortID(h.ID)))
	}
	return nil
}

func runHabitEdit(cmd *cobra.Command, args []string) error {
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

	var u habit.Update
	if cmd.Flags().Changed("name") {
		u.Name = &editName
	}
	if cmd.Flags().Changed("icon") {
		u.Icon = &editIcon
	}
	if cmd.Flags().Changed("desc") {
		u.Description = &editDesc
	}
	if u == (habit.Update{}) {
		return fmt.Errorf("nothing to change, pass --name, --icon or --desc")
	}

	updated, err := a.habits.UpdateHabit(ctx, h.ID, a.userID(), u)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Updated %s %s", updated.Icon, updated.Name))
	return nil
}

func runHabitRm(cmd *cobra.Command, args []string) error {
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
	if !habitRmYes && !confirm(bufio.NewReader(os.Stdin),
		fmt.Sprintf("  Delete %q and all of its history?", h.Name)) {
		ui.Inf("Kept " + h.Name)
		return nil
	}
	if err := a.habits.DeleteHabit(ctx, h.ID, a.userID()); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Deleted %s %s", h.Icon, h.Name))
	return nil
}
