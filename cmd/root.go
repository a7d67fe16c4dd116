// =============================================================================
// Bump Chart Delta Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command all others are attached to:
//
//   rootCmd (bumpchart)
//   ├── processCmd  (bumpchart process)
//   ├── validateCmd (bumpchart validate)
//   └── versionCmd  (bumpchart version)
//
// The root command owns the global flags (--config, --verbose); individual
// commands load the configuration themselves so validate can report on a
// broken config instead of dying before it runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the main configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose mirrors log records to stderr when set.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bumpchart",
	Short: "Bump Chart Delta Reconciler - compare chart prices against Plex",
	Long: `Bump Chart Delta Reconciler reads hand-maintained bump chart workbooks,
resolves each part against the Plex pricing datasources, and produces a
delta report per workbook.

The hard part it automates is candidate resolution: locating the price
blocks inside loosely structured sheets, choosing the right Part_Key among
multiple matching records, and choosing the right historical PO price among
many candidates.

Example Usage:
  bumpchart process                      # Reconcile all configured workbooks
  bumpchart process --config ./my.yaml   # Use a custom configuration file
  bumpchart process --single --file x.xlsx
  bumpchart validate                     # Check configuration without processing`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Mirror log output to stderr",
	)
}
