// =============================================================================
// Bump Chart Delta Reconciler - Validate Command
// =============================================================================
//
// The 'validate' command checks a deployment without touching the network:
// configuration parses, every PCN's credentials resolve and decode, the
// customer list loads, and each configured workbook is reachable. Run it
// after editing config.yaml or rotating credentials.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/bumpchart-delta/internal/config"
	"github.com/ginjaninja78/bumpchart-delta/internal/customers"
	"github.com/ginjaninja78/bumpchart-delta/internal/plex"
	"github.com/ginjaninja78/bumpchart-delta/pkg/utils"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and credentials without processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate reports every problem it finds rather than stopping at the
// first, so one pass is enough to fix a deployment.
func runValidate() error {
	problems := 0
	fail := func(format string, args ...any) {
		problems++
		fmt.Printf("  ✗ "+format+"\n", args...)
	}
	pass := func(format string, args ...any) {
		fmt.Printf("  ✓ "+format+"\n", args...)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	pass("configuration %s parses", cfgFile)

	for pcn := range cfg.PCNAuthEnv {
		encoded, err := cfg.AuthBase64(pcn)
		if err != nil {
			fail("PCN %s: %v", pcn, err)
			continue
		}
		if _, err := plex.DecodeCredentials(encoded); err != nil {
			fail("PCN %s: %v", pcn, err)
			continue
		}
		pass("PCN %s credentials resolve", pcn)
	}

	if dir, err := customers.Load(cfg.CustomerListPath); err != nil {
		fail("customer list: %v", err)
	} else {
		pass("customer list loads (%d customers)", len(dir.Names))
	}

	rm := utils.NewRunManager(cfg.ResultsDir, cfg.NetworkSharePath, cfg.OutputPrefix)
	for _, file := range cfg.InputFiles {
		path := rm.ResolveInputPath(file)
		if _, err := os.Stat(path); err != nil {
			fail("workbook missing: %s", path)
		} else {
			pass("workbook found: %s", path)
		}
	}

	if problems > 0 {
		return fmt.Errorf("validation found %d problem(s)", problems)
	}
	fmt.Println("Configuration is valid.")
	return nil
}
