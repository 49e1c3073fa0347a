package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dictquery/internal/debug"
	"github.com/satishbabariya/dictquery/internal/ui"
)

var (
	cfgFile   string
	debugMode bool
	clientIDs []int64
)

var rootCmd = &cobra.Command{
	Use:   "dictquery",
	Short: "Query ERP tables through the data dictionary",
	Long: `dictquery runs dictionary driven queries against an ERP database.

Tables, key columns, lookups and virtual columns come from the dictionary
file. Every query applies the session's tenant and active record rules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.Init(debugMode)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default .dictquery.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Int64SliceVar(&clientIDs, "client", nil, "Client IDs of the session (overrides config)")
}

// Execute is the main entry point for the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}
