package resolve

import (
	"strings"
	"testing"
	"time"
)

var (
	today      = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	monthStart = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
)

func day(month, d int) time.Time {
	return time.Date(2026, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePriceFutureShipDatesDropped(t *testing.T) {
	candidates := []PriceCandidate{
		{Price: 99.0, ShipDate: day(8, 1), PONo: "PO-FUT"},
		{Price: 10.0, ShipDate: day(7, 10), PONo: "PO-OK"},
	}
	// Exercise both orderings.
	for _, cs := range [][]PriceCandidate{candidates, {candidates[1], candidates[0]}} {
		res := ResolvePrice(cs, 10.0, monthStart, "", nil, today)
		if !res.Found || res.Value.PONo != "PO-OK" {
			t.Errorf("resolution = %+v, want PO-OK", res)
		}
		if res.Status != StatusSuccess {
			t.Errorf("status = %q, want %q", res.Status, StatusSuccess)
		}
	}
}

func TestResolvePriceLatestDateThenProximity(t *testing.T) {
	res := ResolvePrice([]PriceCandidate{
		{Price: 50.0, ShipDate: day(7, 2), PONo: "PO-old"},
		{Price: 8.0, ShipDate: day(7, 12), PONo: "PO-far"},
		{Price: 10.5, ShipDate: day(7, 12), PONo: "PO-near"},
	}, 10.0, monthStart, "", nil, today)
	if res.Value.PONo != "PO-near" {
		t.Errorf("picked %s, want PO-near (max date, closest price)", res.Value.PONo)
	}
}

func TestResolvePriceUnknownDatesAreRecent(t *testing.T) {
	res := ResolvePrice([]PriceCandidate{
		{Price: 4.0, ShipDate: day(5, 1), PONo: "PO-stale"},
		{Price: 7.0, PONo: "PO-undated"},
	}, 7.0, monthStart, "", nil, today)
	if res.Value.PONo != "PO-undated" {
		t.Errorf("picked %s, want PO-undated", res.Value.PONo)
	}
	if res.Status != StatusSuccess {
		t.Errorf("status = %q, want %q", res.Status, StatusSuccess)
	}
}

func TestResolvePriceStaleFallback(t *testing.T) {
	res := ResolvePrice([]PriceCandidate{
		{Price: 4.0, ShipDate: day(5, 1), PONo: "PO-may"},
		{Price: 5.0, ShipDate: day(3, 1), PONo: "PO-march"},
	}, 5.0, monthStart, "", nil, today)
	if res.Value.PONo != "PO-march" {
		t.Errorf("picked %s, want PO-march (earliest older date)", res.Value.PONo)
	}
	if want := "Old Price from 2026-03-01"; res.Status != want {
		t.Errorf("status = %q, want %q", res.Status, want)
	}
}

func TestResolvePriceStaleStatusAlwaysDated(t *testing.T) {
	// The older partition only ever holds dated candidates, so a stale
	// pick always carries its date in the status.
	res := ResolvePrice([]PriceCandidate{
		{Price: 2.0, ShipDate: day(1, 15), PONo: "PO-jan"},
	}, 2.0, monthStart, "", nil, today)
	if !res.Found || res.Value.PONo != "PO-jan" {
		t.Fatalf("resolution = %+v", res)
	}
	if !strings.HasPrefix(res.Status, "Old Price from ") {
		t.Errorf("status = %q, want an Old Price status", res.Status)
	}
}

func TestResolvePriceIdempotent(t *testing.T) {
	candidates := []PriceCandidate{
		{Price: 4.0, ShipDate: day(7, 3), PONo: "PO-a"},
		{Price: 6.0, ShipDate: day(7, 3), PONo: "PO-b"},
		{Price: 5.0, ShipDate: day(6, 1), PONo: "PO-c"},
	}
	first := ResolvePrice(candidates, 5.9, monthStart, "", nil, today)
	for i := 0; i < 5; i++ {
		again := ResolvePrice(candidates, 5.9, monthStart, "", nil, today)
		if again != first {
			t.Fatalf("run %d: resolution changed: %+v vs %+v", i, again, first)
		}
	}
	if first.Value.PONo != "PO-b" {
		t.Errorf("picked %s, want PO-b", first.Value.PONo)
	}
}

func TestResolvePriceCustomerFilter(t *testing.T) {
	known := []string{"Lear Corporation", "Adient"}
	candidates := []PriceCandidate{
		{Price: 3.0, ShipDate: day(7, 5), CustomerName: "ADIENT", PONo: "PO-adient"},
		{Price: 9.0, ShipDate: day(7, 9), CustomerName: "adient ", PONo: "PO-adient2"},
		{Price: 9.0, ShipDate: day(7, 9), CustomerName: "Lear Corporation", PONo: "PO-lear"},
	}

	res := ResolvePrice(candidates, 3.0, monthStart, "Adient", known, today)
	if res.Value.PONo != "PO-adient2" {
		t.Errorf("picked %s, want PO-adient2", res.Value.PONo)
	}

	// A chart customer absent from the known list never falls back to the
	// unfiltered pool.
	res = ResolvePrice(candidates, 3.0, monthStart, "Faurecia", known, today)
	if res.Found {
		t.Fatalf("resolved %+v for an unknown customer", res.Value)
	}
	if want := "No PO's under Faurecia found"; res.Status != want {
		t.Errorf("status = %q, want %q", res.Status, want)
	}
}

func TestResolvePriceNoCandidates(t *testing.T) {
	res := ResolvePrice(nil, 10.0, monthStart, "", nil, today)
	if res.Found {
		t.Error("resolved with no candidates")
	}
	if res.Status != StatusNoSuitablePO {
		t.Errorf("status = %q, want %q", res.Status, StatusNoSuitablePO)
	}
}

func TestMatchCustomerName(t *testing.T) {
	known := []string{"Lear Corporation", "Adient", "Magna"}
	tests := []struct {
		target string
		want   string
		ok     bool
	}{
		{"adient", "Adient", true},
		{"ADIENT ", "Adient", true},
		{"adients", "Adient", true},        // 1 char longer, substring
		{"Magna Intl", "", false},          // length delta 5
		{"Lear", "", false},                // substring but delta > 2
		{"lear corporatio", "Lear Corporation", true},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchCustomerName(tt.target, known)
		if ok != tt.ok || got != tt.want {
			t.Errorf("MatchCustomerName(%q) = %q, %v; want %q, %v", tt.target, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNamesMatchSymmetry(t *testing.T) {
	if !namesMatch("Adient", "adient u") || !namesMatch("adient u", "Adient") {
		t.Error("substring must match in either direction")
	}
	if namesMatch("ab", "abcdef") {
		t.Error("length delta beyond two must not match")
	}
	if namesMatch("", "Adient") {
		t.Error("empty name must never match")
	}
}
