// =============================================================================
// Bump Chart Delta Reconciler - Record Extractor
// =============================================================================
//
// Walks the primary table rows of a scanned sheet and emits one flat record
// per (row, customer) pair. A chart accumulates dated price blocks over
// time; for each row only the most recent block dated on or before the
// as-of date is authoritative, which is how a human reads the chart.
//
// Rows whose selected cells don't parse as a positive part number and a
// numeric price are dropped silently: half-filled template rows, subtotal
// rows and notes are normal in these workbooks and are not errors.
//
// =============================================================================

package chart

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/bumpchart-delta/internal/types"
	"github.com/ginjaninja78/bumpchart-delta/pkg/utils"
)

// Metadata column headers in the primary table. Lookup is by normalized
// header text, never by position.
const (
	programHeader  = "program"
	pcnHeader      = "fisher pcn"
	customerHeader = "plex customer code"
	oemPlantHeader = "oem plant"
)

// Extractor turns scanned sheets into ChartRecords.
type Extractor struct {
	scanner *Scanner

	// customerColumns maps a customer code substring (lower-cased) to the
	// price column label used for that customer on multi-customer rows.
	customerColumns map[string]string

	// defaultPCN fills rows whose PCN cell is blank.
	defaultPCN string
}

// NewExtractor creates an Extractor.
func NewExtractor(priorities []string, customerColumns map[string]string, defaultPCN string) *Extractor {
	lowered := make(map[string]string, len(customerColumns))
	for k, v := range customerColumns {
		lowered[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	return &Extractor{
		scanner:         NewScanner(priorities),
		customerColumns: lowered,
		defaultPCN:      defaultPCN,
	}
}

// ExtractWorkbook loads a workbook and extracts records from every sheet
// that has a primary table. Sheets without one are logged and skipped.
func (e *Extractor) ExtractWorkbook(path string, asOf time.Time) ([]types.ChartRecord, error) {
	sheets, err := LoadWorkbook(path)
	if err != nil {
		return nil, err
	}

	var all []types.ChartRecord
	for _, sheet := range sheets {
		headerRow, ok := e.scanner.PrimaryHeaderRow(sheet.Cells)
		if !ok {
			slog.Info("no primary table in sheet, skipping", "file", path, "sheet", sheet.Name)
			continue
		}
		blocks := e.scanner.PriceBlocks(sheet.Cells)
		records := e.Extract(sheet.Cells, headerRow, blocks, asOf)
		slog.Debug("sheet extracted",
			"file", path, "sheet", sheet.Name,
			"header_row", headerRow, "blocks", len(blocks), "records", len(records))
		all = append(all, records...)
	}
	return all, nil
}

// Extract emits one record per surviving (row, customer) pair of the
// primary table below headerRow.
func (e *Extractor) Extract(m Matrix, headerRow int, blocks []PriceBlock, asOf time.Time) []types.ChartRecord {
	cols := columnIndex(m, headerRow)

	var records []types.ChartRecord
	for row := headerRow + 1; row < len(m); row++ {
		program := cellByHeader(m, row, cols, programHeader)
		pcn := cellByHeader(m, row, cols, pcnHeader)
		if pcn == "" {
			pcn = e.defaultPCN
		}
		customerText := cellByHeader(m, row, cols, customerHeader)
		oemPlant := cellByHeader(m, row, cols, oemPlantHeader)
		description := cellByHeader(m, row, cols, partDescriptionHeader)

		// A comma-separated customer cell splits the row: each customer
		// gets its own record priced from its own column.
		multiCustomer := strings.Contains(customerText, ",")
		customers := splitCustomers(customerText)

		for _, customer := range customers {
			// Only multi-customer rows use the customer-specific column
			// mapping; single-customer rows take the default column.
			selector := ""
			if multiCustomer {
				selector = customer
			}

			partNumber, price, date, ok := e.latestPrice(m, row, blocks, asOf, selector)
			if !ok {
				continue
			}
			records = append(records, types.ChartRecord{
				PartNumber:    partNumber,
				ChartPrice:    price,
				Program:       program,
				PCN:           pcn,
				Customer:      customer,
				OEMPlant:      oemPlant,
				Description:   description,
				EffectiveDate: date,
			})
		}
	}
	return records
}

// latestPrice picks the qualifying price block with the latest effective
// date for one (row, customer) pair and parses its part number and price.
// Qualifying means: dated on or before asOf, header above the data row, and
// a resolvable price column. Ties keep the first-discovered block.
func (e *Extractor) latestPrice(m Matrix, row int, blocks []PriceBlock, asOf time.Time, customer string) (int, float64, time.Time, bool) {
	var (
		bestDate time.Time
		bestPart int
		bestVal  float64
		found    bool
	)

	for _, block := range blocks {
		if block.EffectiveDate.IsZero() || block.EffectiveDate.After(asOf) {
			continue
		}
		if row <= block.HeaderRow {
			continue
		}

		priceCol := e.selectPriceColumn(block, customer)
		if priceCol < 0 {
			continue
		}

		partNumber, ok := parsePartNumber(m.Cell(row, block.PartCol))
		if !ok {
			continue
		}
		price, ok := utils.ParsePrice(m.Cell(row, priceCol))
		if !ok {
			continue
		}

		if !found || block.EffectiveDate.After(bestDate) {
			bestDate = block.EffectiveDate
			bestPart = partNumber
			bestVal = price
			found = true
		}
	}

	return bestPart, bestVal, bestDate, found
}

// selectPriceColumn picks the price column within a block for a customer.
// If the customer maps to a configured column label, the first header right
// of the part column containing that label wins. Otherwise (or when the
// label is absent from this block) the block's default column applies.
func (e *Extractor) selectPriceColumn(block PriceBlock, customer string) int {
	if customer != "" {
		if label := e.mapCustomerToLabel(customer); label != "" {
			for j := block.PartCol + 1; j < len(block.Header); j++ {
				if strings.Contains(normalizeHeader(block.Header[j]), label) {
					return j
				}
			}
			// Mapped label not present in this block; fall through.
		}
	}
	return block.DefaultPriceCol
}

// mapCustomerToLabel resolves a customer token to its configured price
// column label via case-insensitive substring match on the map keys.
func (e *Extractor) mapCustomerToLabel(customer string) string {
	lowered := strings.ToLower(customer)
	for key, label := range e.customerColumns {
		if strings.Contains(lowered, key) {
			return label
		}
	}
	return ""
}

// columnIndex builds the primary table's header -> column lookup. All row
// access goes through this map; positional literals never appear.
func columnIndex(m Matrix, headerRow int) map[string]int {
	cols := make(map[string]int)
	if headerRow < 0 || headerRow >= len(m) {
		return cols
	}
	for j := range m[headerRow] {
		name := normalizeHeader(m.Cell(headerRow, j))
		if name == "" {
			continue
		}
		if _, exists := cols[name]; !exists {
			cols[name] = j
		}
	}
	return cols
}

// cellByHeader reads a cell by primary-header name; missing columns yield "".
func cellByHeader(m Matrix, row int, cols map[string]int, header string) string {
	col, ok := cols[header]
	if !ok {
		return ""
	}
	return m.Cell(row, col)
}

// splitCustomers splits a customer cell on commas, dropping empty tokens.
// A blank cell yields a single empty token so the row still produces one
// record through the default price column.
func splitCustomers(text string) []string {
	if !strings.Contains(text, ",") {
		return []string{strings.TrimSpace(text)}
	}
	var out []string
	for _, tok := range strings.Split(text, ",") {
		if t := strings.TrimSpace(tok); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// parsePartNumber parses a part number cell as a positive integer.
func parsePartNumber(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
