package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dictquery/internal/ui"
	"github.com/satishbabariya/dictquery/internal/version"
)

var versionFull bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		if versionFull {
			fmt.Fprintln(ui.Output, info.FullString())
			return
		}
		fmt.Fprintln(ui.Output, info.String())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "Print build details")
	rootCmd.AddCommand(versionCmd)
}
