package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/ui"
)

var (
	templateAddUse bool
	templateRmYes  bool
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage habit templates",
	RunE:    runTemplateList,
}

var templateAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateAdd,
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE:    runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show [template]",
	Short: "Show a template and its habits",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplateShow,
}

var templateUseCmd = &cobra.Command{
	Use:   "use <template>",
	Short: "Make a template the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateUse,
}

var templateRenameCmd = &cobra.Command{
	Use:   "rename <template> <new-name>",
	Short: "Rename a template",
	Args:  cobra.ExactArgs(2),
	RunE:  runTemplateRename,
}

var templateRmCmd = &cobra.Command{
	Use:     "rm <template>",
	Aliases: []string{"delete"},
	Short:   "Delete a template with its habits and their history",
	Args:    cobra.ExactArgs(1),
	RunE:    runTemplateRm,
}

func init() {
	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateUseCmd)
	templateCmd.AddCommand(templateRenameCmd)
	templateCmd.AddCommand(templateRmCmd)

	templateAddCmd.Flags().BoolVar(&templateAddUse, "use", false, "Make the new template active")
	templateRmCmd.Flags().BoolVarP(&templateRmYes, "yes", "y", false, "Skip confirmation")
}

func runTemplateAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	tpl, err := a.habits.CreateTemplate(ctx, a.userID(), args[0])
	if err != nil {
		return err
	}

	active, err := a.habits.ActiveTemplate(ctx, a.userID())
	if err != nil {
		return err
	}
	if templateAddUse || active == "" {
		if err := a.habits.SetActiveTemplate(ctx, a.userID(), tpl.ID); err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("Created template %q (active)", tpl.Name))
		return nil
	}
	ui.Ok(fmt.Sprintf("Created template %q", tpl.Name))
	return nil
}

func runTemplateList(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	templates, err := a.habits.ListTemplates(ctx, a.userID())
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Println(ui.Muted.Render("  No templates yet."))
		ui.Tip("`tally template add Daily` to create one.")
		return nil
	}
	active, err := a.habits.ActiveTemplate(ctx, a.userID())
	if err != nil {
		return err
	}

	for _, tpl := range templates {
		marker := "  "
		name := tpl.Name
		if tpl.ID == active {
			marker = ui.Accent.Render(ui.IconArrow + " ")
			name = ui.Title.Render(name)
		}
		fmt.Printf("  %s%s  %s\n", marker, name, ui.Muted.Render(shortID(tpl.ID)))
	}
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	ref := templateFlag
	if len(args) == 1 {
		ref = args[0]
	}
	tpl, err := a.selectTemplate(ctx, ref)
	if err != nil {
		return err
	}
	tpl, err = a.habits.TemplateWithHabits(ctx, tpl.ID, a.userID())
	if err != nil {
		return err
	}

	ui.Header(tpl.Name)
	ui.Kv("ID", tpl.ID)
	ui.Kv("Created", tpl.CreatedAt.Local().Format("2006-01-02"))
	fmt.Println()
	if len(tpl.Habits) == 0 {
		fmt.Println(ui.Muted.Render("  No habits yet."))
		return nil
	}
	for _, h := range tpl.Habits {
		fmt.Printf("  %s %s  %s\n", h.Icon, h.Name, ui.Muted.Render(h.Type.Label()))
		if h.Description != "" {
			fmt.Printf("     %s\n", ui.Muted.Render(h.Description))
		}
	}
	return nil
}

func runTemplateUse(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	tpl, err := a.habits.ResolveTemplate(ctx, a.userID(), args[0])
	if err != nil {
		return err
	}
	if err := a.habits.SetActiveTemplate(ctx, a.userID(), tpl.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Now using %q", tpl.Name))
	return nil
}

func runTemplateRename(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	tpl, err := a.habits.ResolveTemplate(ctx, a.userID(), args[0])
	if err != nil {
		return err
	}
	renamed, err := a.habits.RenameTemplate(ctx, tpl.ID, a.userID(), args[1])
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Renamed %q to %q", tpl.Name, renamed.Name))
	return nil
}

func runTemplateRm(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmdContext(cmd)

	tpl, err := a.habits.ResolveTemplate(ctx, a.userID(), args[0])
	if err != nil {
		return err
	}
	if !templateRmYes && !confirm(bufio.NewReader(os.Stdin),
		fmt.Sprintf("  Delete %q and all of its history?", tpl.Name)) {
		ui.Inf("Kept " + tpl.Name)
		return nil
	}
	if err := a.habits.DeleteTemplate(ctx, tpl.ID, a.userID()); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Deleted %q", tpl.Name))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
