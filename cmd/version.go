package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/tally/internal/version"
)

var (
	versionShort bool
	versionJSON  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print tally version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(_ *cobra.Command, _ []string) error {
	switch {
	case versionJSON:
		return printJSON(version.Get())
	case versionShort:
		fmt.Println(version.Short())
	default:
		fmt.Println(version.Get().String())
	}
	return nil
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build info as JSON")
}
