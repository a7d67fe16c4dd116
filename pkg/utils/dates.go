// =============================================================================
// Bump Chart Delta Reconciler - Date and Price Helpers
// =============================================================================
//
// Shared parsing and formatting helpers used by both the chart extractor and
// the pricing-source client. Spreadsheet cells and API rows carry dates in a
// handful of layouts; ParseDate tries them in order of likelihood.
//
// =============================================================================

package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the formats accepted for chart cells and API ship dates,
// most common first. Excelize renders workbook date cells with the short
// US styles; the pricing source returns ISO-8601.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"01/02/2006",
	"1-2-06",
	"Jan 2, 2006",
	"2-Jan-06",
	"2-Jan-2006",
}

// ParseDate parses a raw cell or API value into a date. The second return
// value is false when the value does not parse under any accepted layout.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// MonthStart normalizes a date to the first of its calendar month at
// midnight UTC. Zero dates normalize to the current month, so a chart row
// with no price-block date still produces a usable lookup key. The string
// form is the pricing source's Shipper_Date_Begin input.
func MonthStart(t time.Time) (time.Time, string) {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.Format("2006-01-02T15:04:05Z")
}

// ParsePrice parses a chart price cell, tolerating currency symbols and
// thousands separators ("$10,000.50" -> 10000.50).
func ParsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatPrice renders a price with two decimals for logs and reports.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RoundDelta rounds a price delta to five decimals and normalizes negative
// zero, matching the report's delta column contract.
func RoundDelta(delta float64) float64 {
	rounded := math.Round(delta*1e5) / 1e5
	if rounded == 0 {
		return 0
	}
	return rounded
}
