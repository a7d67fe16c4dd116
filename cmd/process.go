// =============================================================================
// Bump Chart Delta Reconciler - Process Command
// =============================================================================
//
// The 'process' command runs the reconciliation pipeline:
//
//   1. Load configuration, customer list, and the persisted part-key cache
//   2. Create a fresh results directory for this run
//   3. For each configured workbook (concurrently):
//      a. Scan sheets for the primary table and price blocks
//      b. Extract one record per (row, customer) pair
//      c. Resolve each record's Part_Key and PO price
//      d. Write the workbook's delta report
//   4. Send one success email carrying every report
//
// Errors in one workbook do not affect the others; each failure is mailed
// to the error recipient as it happens, and an error log is written into
// the run directory when anything failed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/bumpchart-delta/internal/cache"
	"github.com/ginjaninja78/bumpchart-delta/internal/chart"
	"github.com/ginjaninja78/bumpchart-delta/internal/config"
	"github.com/ginjaninja78/bumpchart-delta/internal/customers"
	"github.com/ginjaninja78/bumpchart-delta/internal/logging"
	"github.com/ginjaninja78/bumpchart-delta/internal/plex"
	"github.com/ginjaninja78/bumpchart-delta/internal/reconcile"
	"github.com/ginjaninja78/bumpchart-delta/internal/report"
	"github.com/ginjaninja78/bumpchart-delta/pkg/utils"
)

// dryRun skips report writing and email delivery.
var dryRun bool

// singleFile restricts processing to one workbook.
var singleFile bool

// filePath is the workbook to process when --single is set.
var filePath string

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Reconcile bump chart workbooks against the pricing source",
	Long: `The process command reads every configured bump chart workbook, resolves
each extracted part against the Plex pricing datasources, and writes one
delta report per workbook into a fresh run directory.

Workbooks are processed concurrently and independently: a failure in one
produces an entry in the run's error log while the others complete. A
record that cannot be resolved is reported with a status string, never
dropped silently (except parts with no Part_Key at all, which are logged
and excluded from the outbound report).`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Resolve everything but write no reports and send no email",
	)
	processCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Process only a single workbook (use with --file)",
	)
	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to the workbook to process (used with --single)",
	)
}

// runProcess orchestrates the reconciliation pipeline.
func runProcess() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION AND DEPENDENCIES
	// =========================================================================

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	closeLog, err := logging.Setup(cfg.LogLevel, cfg.LogFile, verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	directory, err := customers.Load(cfg.CustomerListPath)
	if err != nil {
		return fmt.Errorf("failed to load customer list: %w", err)
	}

	partKeys := cache.LoadPartKeyCache(cfg.PartKeyCachePath)
	slog.Info("part key cache loaded", "path", cfg.PartKeyCachePath, "entries", partKeys.Len())

	client := plex.NewClient(cfg.PartKeyURL, cfg.PriceURL, partKeys)
	extractor := chart.NewExtractor(cfg.PriceColumnPriorities, cfg.CustomerPriceColumns, cfg.DefaultPCN)

	engine := reconcile.New(reconcile.Options{
		Client:    client,
		Directory: directory,
		Extractor: extractor,
		Credentials: func(pcn string) (plex.Credentials, error) {
			encoded, err := cfg.AuthBase64(pcn)
			if err != nil {
				return plex.Credentials{}, err
			}
			return plex.DecodeCredentials(encoded)
		},
	})

	// =========================================================================
	// STEP 2: RESOLVE INPUT FILES AND RUN DIRECTORY
	// =========================================================================

	rm := utils.NewRunManager(cfg.ResultsDir, cfg.NetworkSharePath, cfg.OutputPrefix)

	inputFiles := cfg.InputFiles
	if singleFile {
		if filePath == "" {
			return fmt.Errorf("--single requires --file")
		}
		inputFiles = []string{filePath}
	}

	runDir, err := rm.NewRunDir()
	if err != nil {
		return err
	}
	mailer := report.NewMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From, cfg.Email.Subject)
	slog.Info("run started", "run_dir", runDir, "files", len(inputFiles), "dry_run", dryRun)
	fmt.Printf("=== Bump Chart Delta Reconciler ===\nProcessing %d workbook(s)...\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS WORKBOOKS CONCURRENTLY
	// =========================================================================
	// Each workbook runs in its own goroutine; results come back over a
	// buffered channel. The engine's caches are shared and synchronized.

	var wg sync.WaitGroup
	results := make(chan reconcile.Result, len(inputFiles))

	for _, file := range inputFiles {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			inputPath := rm.ResolveInputPath(file)
			reportPath := filepath.Join(runDir, rm.ReportFileName(inputPath))
			results <- engine.ProcessFile(inputPath, reportPath, dryRun)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	attachments, errorEntries, successCount, errorCount := collectResults(results, mailer, cfg.Email.ErrorRecipient, dryRun)

	if logPath, err := utils.WriteErrorLog(errorEntries, runDir); err != nil {
		slog.Error("failed to write error log", "error", err)
	} else if logPath != "" {
		fmt.Printf("Errors logged to %s\n", logPath)
	}

	// =========================================================================
	// STEP 5: EMAIL AND SUMMARY
	// =========================================================================

	if !dryRun && len(attachments) > 0 {
		if err := mailer.SendSuccess(cfg.Email.Recipients, attachments); err != nil {
			slog.Error("failed to send success email", "error", err)
			mailer.SendError(cfg.Email.ErrorRecipient, err.Error())
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Workbooks:    %d\n", len(inputFiles))
	fmt.Printf("Successful:   %d\n", successCount)
	fmt.Printf("Errors:       %d\n", errorCount)
	fmt.Printf("Time elapsed: %s\n", elapsed)

	slog.Info("run finished", "successful", successCount, "errors", errorCount, "elapsed", elapsed)
	return nil
}

// =============================================================================
// RESULT COLLECTION
// =============================================================================

// errorNotifier is the part of the mailer the collection loop uses.
type errorNotifier interface {
	SendError(recipient, message string)
}

// collectResults drains the per-workbook result channel, printing progress
// and gathering report attachments and error log entries. Every failed
// workbook is mailed to the error recipient as it arrives; dry runs collect
// without notifying.
func collectResults(results <-chan reconcile.Result, notifier errorNotifier, errorRecipient string, dryRun bool) (attachments []string, errorEntries []utils.ErrorLogEntry, successCount, errorCount int) {
	for result := range results {
		if result.Success {
			successCount++
			fmt.Printf("  ✓ %s (%d records)\n", filepath.Base(result.FilePath), result.Stats.RecordsReported)
			if result.OutputFile != "" {
				attachments = append(attachments, result.OutputFile)
			}
			continue
		}

		errorCount++
		fmt.Printf("  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
		slog.Error("workbook failed", "file", result.FilePath, "error", result.Error)
		errorEntries = append(errorEntries, utils.ErrorLogEntry{
			Timestamp: time.Now(),
			FileName:  filepath.Base(result.FilePath),
			Message:   result.Error.Error(),
		})
		if !dryRun {
			notifier.SendError(errorRecipient, fmt.Sprintf("%s: %v", filepath.Base(result.FilePath), result.Error))
		}
	}
	return attachments, errorEntries, successCount, errorCount
}
