// =============================================================================
// Bump Chart Delta Reconciler - Table Layout Scanner
// =============================================================================
//
// Bump charts are hand-maintained: the primary table can start on any row,
// and dated "price blocks" (a Part Number column, its price columns, and a
// date label somewhere above) are appended to the right as prices get
// revised. This module locates both without assuming fixed positions.
//
//   - The primary header row is the first row carrying both "Part Number"
//     and "Part Description" cells.
//   - A price block is declared at every cell equal to "Part Number",
//     wherever it appears. Its default price column is found by the
//     exact-then-substring priority rule, and its effective date is the
//     first parseable date scanning upward in the part column.
//
// Blocks come back in document (row, then column) order; the extractor
// re-ranks them by date when assigning rows.
//
// =============================================================================

package chart

import (
	"strings"
	"time"

	"github.com/ginjaninja78/bumpchart-delta/pkg/utils"
)

// Header cells that identify the primary table and price blocks. Matching
// is case-insensitive on trimmed values.
const (
	partNumberHeader      = "part number"
	partDescriptionHeader = "part description"
)

// PriceBlock describes one discovered price block. Read-only after Scan.
type PriceBlock struct {
	// HeaderRow is the row holding this block's "Part Number" cell.
	HeaderRow int

	// PartCol is the column of the "Part Number" cell.
	PartCol int

	// Header holds the full header row's trimmed values, used for
	// per-customer price column selection.
	Header []string

	// DefaultPriceCol is the block's default price column, -1 when no
	// priority label was found to the right of PartCol.
	DefaultPriceCol int

	// EffectiveDate is the date found above the part column; zero when the
	// block carries no date label.
	EffectiveDate time.Time
}

// Scanner locates the primary table and price blocks in a sheet.
type Scanner struct {
	// Priorities are the default price column labels in preference order,
	// lower-cased ("ddp price" before "fca price").
	Priorities []string
}

// NewScanner creates a Scanner with the given price column priorities.
func NewScanner(priorities []string) *Scanner {
	lowered := make([]string, len(priorities))
	for i, p := range priorities {
		lowered[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return &Scanner{Priorities: lowered}
}

// PrimaryHeaderRow returns the first row containing both "Part Number" and
// "Part Description" as distinct cells. ok is false when the sheet has no
// primary table; callers skip such sheets.
func (s *Scanner) PrimaryHeaderRow(m Matrix) (int, bool) {
	for i := range m {
		hasNumber, hasDescription := false, false
		for j := range m[i] {
			switch normalizeHeader(m.Cell(i, j)) {
			case partNumberHeader:
				hasNumber = true
			case partDescriptionHeader:
				hasDescription = true
			}
		}
		if hasNumber && hasDescription {
			return i, true
		}
	}
	return 0, false
}

// PriceBlocks discovers every price block in the sheet, in document order.
// Multiple "Part Number" cells on one row yield multiple blocks sharing
// that header row.
func (s *Scanner) PriceBlocks(m Matrix) []PriceBlock {
	var blocks []PriceBlock
	for i := range m {
		for j := range m[i] {
			if normalizeHeader(m.Cell(i, j)) != partNumberHeader {
				continue
			}
			header := make([]string, len(m[i]))
			for k := range m[i] {
				header[k] = m.Cell(i, k)
			}
			blocks = append(blocks, PriceBlock{
				HeaderRow:       i,
				PartCol:         j,
				Header:          header,
				DefaultPriceCol: findPriceColumn(header, j, s.Priorities),
				EffectiveDate:   dateAbove(m, i, j),
			})
		}
	}
	return blocks
}

// findPriceColumn locates the default price column for a block: the first
// column right of partCol whose header exactly equals a priority label, in
// priority order; failing that, the first whose header contains one as a
// substring, same order. Returns -1 when neither matches.
func findPriceColumn(header []string, partCol int, priorities []string) int {
	start := partCol + 1

	for _, priority := range priorities {
		for j := start; j < len(header); j++ {
			if normalizeHeader(header[j]) == priority {
				return j
			}
		}
	}
	for _, priority := range priorities {
		for j := start; j < len(header); j++ {
			if strings.Contains(normalizeHeader(header[j]), priority) {
				return j
			}
		}
	}
	return -1
}

// dateAbove scans upward from the block header in the part column and
// returns the first cell that parses as a date. Zero when none exists.
func dateAbove(m Matrix, headerRow, col int) time.Time {
	for row := headerRow - 1; row >= 0; row-- {
		if d, ok := utils.ParseDate(m.Cell(row, col)); ok {
			return d
		}
	}
	return time.Time{}
}

// normalizeHeader lower-cases and trims a header cell for comparison.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
