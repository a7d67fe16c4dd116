// =============================================================================
// Bump Chart Delta Reconciler - Run Manager Utility
// =============================================================================
//
// This module provides file management utilities for reconciliation runs:
//   - Per-run results directory creation
//   - Report file naming
//   - Error log generation
//   - Input file resolution against the network share
//
// RUN LAYOUT:
//   Results/
//     20260830_141502_a1b2c3d4/          <- one directory per run
//       Delta-Report_<workbook name>.xlsx
//       errors.log                        <- only when failures occurred
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RUN MANAGER
// =============================================================================

// RunManager handles filesystem operations for a reconciliation run.
type RunManager struct {
	// ResultsDir is the root directory holding per-run output directories.
	ResultsDir string

	// SharePath is the root directory (typically a mounted network share)
	// that configured input file paths are relative to.
	SharePath string

	// OutputPrefix is prepended to every report file name.
	OutputPrefix string
}

// NewRunManager creates a RunManager for the given directories.
func NewRunManager(resultsDir, sharePath, outputPrefix string) *RunManager {
	return &RunManager{
		ResultsDir:   resultsDir,
		SharePath:    sharePath,
		OutputPrefix: outputPrefix,
	}
}

// NewRunDir creates and returns a fresh directory for this run, named with
// a timestamp plus a short random suffix so concurrent runs never collide.
func (rm *RunManager) NewRunDir() (string, error) {
	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
	dir := filepath.Join(rm.ResultsDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// ResolveInputPath joins a configured input file path with the share root.
// Absolute paths are returned unchanged.
func (rm *RunManager) ResolveInputPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(rm.SharePath, file)
}

// ReportFileName derives the delta-report file name for an input workbook.
// "Bump Chart Q1.xlsm" -> "Delta-Report_Bump Chart Q1.xlsx".
func (rm *RunManager) ReportFileName(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return rm.OutputPrefix + base + ".xlsx"
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	Timestamp time.Time
	FileName  string
	Message   string
}

// WriteErrorLog writes error entries to errors.log in the run directory.
// Returns the log path, or an empty string when there was nothing to write.
func WriteErrorLog(entries []ErrorLogEntry, runDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(runDir, "errors.log")
	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer f.Close()

	for _, e := range entries {
		line := fmt.Sprintf("%s  %s: %s\n", e.Timestamp.Format(time.RFC3339), e.FileName, e.Message)
		if _, err := f.WriteString(line); err != nil {
			return "", fmt.Errorf("failed to write error log: %w", err)
		}
	}

	return logPath, nil
}

// =============================================================================
// FILE HELPERS
// =============================================================================

// CopyFile copies src to dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Sync()
}
