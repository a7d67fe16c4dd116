package chart

import (
	"testing"
	"time"
)

var defaultPriorities = []string{"ddp price", "fca price"}

func TestPrimaryHeaderRowPositionInvariant(t *testing.T) {
	header := []string{"Program", " PART NUMBER ", "part description"}

	// The same header row must be found regardless of leading clutter.
	for lead := 0; lead < 4; lead++ {
		m := Matrix{}
		for i := 0; i < lead; i++ {
			m = append(m, []string{"", "notes", ""})
		}
		m = append(m, header)

		got, ok := NewScanner(defaultPriorities).PrimaryHeaderRow(m)
		if !ok {
			t.Fatalf("lead %d: primary header not found", lead)
		}
		if got != lead {
			t.Errorf("lead %d: header row = %d, want %d", lead, got, lead)
		}
	}
}

func TestPrimaryHeaderRowRequiresBothCells(t *testing.T) {
	m := Matrix{
		{"Part Number", "Price"},      // description missing
		{"Part Description", "Notes"}, // number missing
	}
	if _, ok := NewScanner(defaultPriorities).PrimaryHeaderRow(m); ok {
		t.Error("found a primary header in a sheet with no complete header row")
	}
}

func TestPriceBlocksDiscovery(t *testing.T) {
	m := Matrix{
		{"", "", "3/1/26", "", "", "6/1/26", ""},
		{"", "", "Part Number", "DDP Price", "", "Part Number", "Rev FCA Price"},
	}
	blocks := NewScanner(defaultPriorities).PriceBlocks(m)
	if len(blocks) != 2 {
		t.Fatalf("found %d blocks, want 2", len(blocks))
	}

	first, second := blocks[0], blocks[1]
	if first.PartCol != 2 || second.PartCol != 5 {
		t.Errorf("part cols = %d, %d", first.PartCol, second.PartCol)
	}
	// Exact "DDP Price" match.
	if first.DefaultPriceCol != 3 {
		t.Errorf("first block price col = %d, want 3", first.DefaultPriceCol)
	}
	// No exact match to the right of col 5; "Rev FCA Price" matches by substring.
	if second.DefaultPriceCol != 6 {
		t.Errorf("second block price col = %d, want 6", second.DefaultPriceCol)
	}

	wantFirst := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !first.EffectiveDate.Equal(wantFirst) {
		t.Errorf("first block date = %v, want %v", first.EffectiveDate, wantFirst)
	}
	wantSecond := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if !second.EffectiveDate.Equal(wantSecond) {
		t.Errorf("second block date = %v, want %v", second.EffectiveDate, wantSecond)
	}
}

func TestPriceBlockExactMatchBeatsEarlierSubstring(t *testing.T) {
	// "Old DDP Price" appears first but the exact "DDP Price" wins.
	m := Matrix{
		{"Part Number", "Old DDP Price", "DDP Price"},
	}
	blocks := NewScanner(defaultPriorities).PriceBlocks(m)
	if len(blocks) != 1 {
		t.Fatalf("found %d blocks, want 1", len(blocks))
	}
	if blocks[0].DefaultPriceCol != 2 {
		t.Errorf("price col = %d, want 2 (exact match)", blocks[0].DefaultPriceCol)
	}
}

func TestPriceBlockDDPPriorityOverFCA(t *testing.T) {
	m := Matrix{
		{"Part Number", "FCA Price", "DDP Price"},
	}
	blocks := NewScanner(defaultPriorities).PriceBlocks(m)
	if blocks[0].DefaultPriceCol != 2 {
		t.Errorf("price col = %d, want 2 (ddp before fca)", blocks[0].DefaultPriceCol)
	}
}

func TestPriceBlockWithoutPriceColumn(t *testing.T) {
	m := Matrix{
		{"Notes", "Part Number", "Quantity"},
	}
	blocks := NewScanner(defaultPriorities).PriceBlocks(m)
	if blocks[0].DefaultPriceCol != -1 {
		t.Errorf("price col = %d, want -1", blocks[0].DefaultPriceCol)
	}
}

func TestDateAboveSkipsNonDates(t *testing.T) {
	m := Matrix{
		{"", "12/1/25", ""},
		{"", "effective", ""},
		{"", "", ""},
		{"", "Part Number", "DDP Price"},
	}
	blocks := NewScanner(defaultPriorities).PriceBlocks(m)
	want := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if !blocks[0].EffectiveDate.Equal(want) {
		t.Errorf("date = %v, want %v", blocks[0].EffectiveDate, want)
	}
}

func TestDateAboveAbsent(t *testing.T) {
	m := Matrix{
		{"", "header", ""},
		{"", "Part Number", "DDP Price"},
	}
	blocks := NewScanner(defaultPriorities).PriceBlocks(m)
	if !blocks[0].EffectiveDate.IsZero() {
		t.Errorf("date = %v, want zero", blocks[0].EffectiveDate)
	}
}
