// =============================================================================
// Bump Chart Delta Reconciler - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - chart
//   - reconcile
//   - report
//
// =============================================================================

package types

import "time"

// =============================================================================
// CHART TYPES
// =============================================================================

// ChartRecord represents one part extracted from a bump chart workbook.
// A spreadsheet row with N comma-separated customers yields N records, each
// priced from its own column.
type ChartRecord struct {
	// PartNumber is the human-readable part number from the chart.
	PartNumber int

	// ChartPrice is the price recorded in the spreadsheet, after stripping
	// currency symbols and thousands separators.
	ChartPrice float64

	// Program is the vehicle program the part belongs to.
	Program string

	// PCN is the site code used to select pricing-source credentials.
	// Blank cells fall back to the configured default.
	PCN string

	// Customer is the customer code token this record was extracted for.
	Customer string

	// OEMPlant is the destination plant recorded in the chart.
	OEMPlant string

	// Description is the part description from the primary table.
	Description string

	// EffectiveDate is the date of the price block the price was read from.
	// Zero when the block carried no date.
	EffectiveDate time.Time
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// CompareResult is one reconciled row of the delta report.
type CompareResult struct {
	PartNumber    string
	ChartPrice    float64
	PlexPrice     float64
	Delta         float64
	Description   string
	PCN           string
	Program       string
	OEMPlant      string
	Customer      string
	PONo          string
	EffectiveDate time.Time
	Status        string
	PartKey       string
}

// StatusNoPartKey marks records whose part number resolved to no internal
// key. These are logged but excluded from the outbound report.
const StatusNoPartKey = "No part found (no Part_Key)"
