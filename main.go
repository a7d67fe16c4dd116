// =============================================================================
// Bump Chart Delta Reconciler - Main Entry Point
// =============================================================================
//
// This is the main entry point for the bump chart reconciliation CLI. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   bumpchart process       - Reconcile all configured bump chart workbooks
//   bumpchart validate      - Validate configuration without processing
//   bumpchart version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/bumpchart-delta/cmd"
)

// main is the entry point of the application. It simply calls the Execute
// function from the cmd package, which initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
