// =============================================================================
// Bump Chart Delta Reconciler - Delta Report Writer
// =============================================================================
//
// Writes one XLSX delta report per input workbook. The layout mirrors what
// the analysts already review: a frozen header row, one row per reconciled
// record, and the internal Part_Key kept in a hidden trailing column so a
// re-run can be diffed against the exact keys used without cluttering the
// visible sheet.
//
// =============================================================================

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/bumpchart-delta/internal/types"
)

// resultColumns is the report column order. Part_Key must stay last: the
// writer hides the final column by position.
var resultColumns = []string{
	"Part Number",
	"Chart Price",
	"Plex Price",
	"Delta",
	"Description",
	"PCN",
	"Program",
	"OEM Plant",
	"Customer",
	"PO_No",
	"Effective Date",
	"Status",
	"Part_Key",
}

const reportSheet = "Sheet1"

// Write renders results to an XLSX file at path, replacing any existing
// file. Results are written in input order.
func Write(results []types.CompareResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(resultColumns))
	for i, c := range resultColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for i, r := range results {
		effective := ""
		if !r.EffectiveDate.IsZero() {
			effective = r.EffectiveDate.Format("2006-01-02")
		}
		row := []any{
			r.PartNumber,
			r.ChartPrice,
			r.PlexPrice,
			r.Delta,
			r.Description,
			r.PCN,
			r.Program,
			r.OEMPlant,
			r.Customer,
			r.PONo,
			effective,
			r.Status,
			r.PartKey,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute report cell: %w", err)
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", i+2, err)
		}
	}

	// Freeze the header row.
	if err := f.SetPanes(reportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	// Hide the Part_Key column.
	keyCol, err := excelize.ColumnNumberToName(len(resultColumns))
	if err != nil {
		return fmt.Errorf("failed to compute Part_Key column: %w", err)
	}
	if err := f.SetColVisible(reportSheet, keyCol, false); err != nil {
		return fmt.Errorf("failed to hide Part_Key column: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}
