// =============================================================================
// Bump Chart Delta Reconciler - Workbook Access
// =============================================================================
//
// This module loads bump chart workbooks into plain cell matrices. All
// downstream scanning works on Matrix so the layout logic stays independent
// of excelize and trivially testable with literal grids.
//
// =============================================================================

package chart

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Matrix is one sheet's cells as a row-major grid of raw string values.
// Rows may be ragged; use Cell for bounds-safe access. Immutable once read.
type Matrix [][]string

// Cell returns the trimmed value at (row, col), or "" when out of range.
func (m Matrix) Cell(row, col int) string {
	if row < 0 || row >= len(m) {
		return ""
	}
	r := m[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Sheet is a named cell matrix.
type Sheet struct {
	Name  string
	Cells Matrix
}

// LoadWorkbook reads every sheet of an XLSX/XLSM workbook into memory.
func LoadWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Cells: rows})
	}
	return sheets, nil
}
