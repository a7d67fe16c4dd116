package resolve

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status strings surfaced on the delta report. The stale-price status
// embeds the fallback date via StatusOldPrice.
const (
	StatusSuccess        = "Success"
	StatusNoSuitablePO   = "No suitable PO found"
	StatusMissingColumns = "PO API missing required columns"
	StatusNoPOsYet       = "No PO's exist yet"
)

// StatusNoPOsForCustomer formats the status for a customer whose POs could
// not be found, distinct from "no records at all".
func StatusNoPOsForCustomer(customer string) string {
	return fmt.Sprintf("No PO's under %s found", customer)
}

// StatusOldPrice formats the stale-fallback status for the given date.
func StatusOldPrice(date time.Time) string {
	return fmt.Sprintf("Old Price from %s", date.Format("2006-01-02"))
}

// PriceCandidate is one PO row from the pricing datasource. Ephemeral.
type PriceCandidate struct {
	Price        float64
	ShipDate     time.Time // zero = unknown
	CustomerName string
	PONo         string
}

// PricePick is a selected price with its PO number.
type PricePick struct {
	Price float64
	PONo  string
}

// ResolvePrice picks one price among candidate PO rows.
//
//  1. Candidates shipping strictly after today are dropped: future-dated
//     records are not yet authoritative.
//  2. A non-empty customerName is fuzzy-matched against knownNames; a match
//     filters candidates to those passing the same test against the matched
//     name. A failed match, or a filter with no survivors, resolves to
//     "No PO's under <name> found".
//  3. Remaining candidates split at threshold (month start): ship dates on
//     or after it, or unknown, are "recent"; earlier ones are "older".
//  4. Among recent candidates sharing the maximum ship date (all of them if
//     none carry a date), the price closest to chartPrice wins; ties keep
//     first occurrence. Status "Success".
//  5. Otherwise, among older candidates sharing the minimum ship date, same
//     proximity rule; flagged "Old Price from <date>".
//  6. Otherwise "No suitable PO found".
//
// A zero threshold disables the partition; everything is recent.
func ResolvePrice(candidates []PriceCandidate, chartPrice float64, threshold time.Time, customerName string, knownNames []string, today time.Time) Resolution[PricePick] {
	if customerName != "" {
		matched, ok := MatchCustomerName(customerName, knownNames)
		if !ok {
			return unresolved[PricePick](StatusNoPOsForCustomer(customerName))
		}
		filtered := candidates[:0:0]
		for _, c := range candidates {
			if namesMatch(c.CustomerName, matched) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return unresolved[PricePick](StatusNoPOsForCustomer(customerName))
		}
		candidates = filtered
	}

	var recent, older []PriceCandidate
	for _, c := range candidates {
		if !c.ShipDate.IsZero() && c.ShipDate.After(today) {
			continue
		}
		if !threshold.IsZero() && !c.ShipDate.IsZero() && c.ShipDate.Before(threshold) {
			older = append(older, c)
		} else {
			recent = append(recent, c)
		}
	}

	if len(recent) > 0 {
		best, _ := pickByDate(recent, chartPrice, latestDate)
		return resolved(PricePick{Price: best.Price, PONo: best.PONo}, StatusSuccess)
	}
	if len(older) > 0 {
		// Only dated candidates land in older, so the pick's date is set.
		best, date := pickByDate(older, chartPrice, earliestDate)
		return resolved(PricePick{Price: best.Price, PONo: best.PONo}, StatusOldPrice(date))
	}
	return unresolved[PricePick](StatusNoSuitablePO)
}

type datePreference int

const (
	latestDate datePreference = iota
	earliestDate
)

// pickByDate narrows candidates to those sharing the preferred (latest or
// earliest) known ship date, then picks the price closest to chartPrice.
// Candidates without dates only compete when no candidate carries one.
func pickByDate(candidates []PriceCandidate, chartPrice float64, pref datePreference) (PriceCandidate, time.Time) {
	var pivot time.Time
	for _, c := range candidates {
		if c.ShipDate.IsZero() {
			continue
		}
		if pivot.IsZero() ||
			(pref == latestDate && c.ShipDate.After(pivot)) ||
			(pref == earliestDate && c.ShipDate.Before(pivot)) {
			pivot = c.ShipDate
		}
	}

	pool := candidates
	if !pivot.IsZero() {
		pool = nil
		for _, c := range candidates {
			if c.ShipDate.Equal(pivot) {
				pool = append(pool, c)
			}
		}
	}

	best := pool[0]
	bestGap := math.Abs(best.Price - chartPrice)
	for _, c := range pool[1:] {
		if gap := math.Abs(c.Price - chartPrice); gap < bestGap {
			best, bestGap = c, gap
		}
	}
	return best, pivot
}

// MatchCustomerName fuzzy-matches a chart customer name against the known
// customer list. Two names match when one is a case-insensitive substring
// of the other and their lengths differ by at most two characters. The
// heuristic is deliberately unchanged from the historical behavior: edit
// distance would alter which POs get picked.
func MatchCustomerName(target string, known []string) (string, bool) {
	for _, cand := range known {
		if namesMatch(target, cand) {
			return cand, true
		}
	}
	return "", false
}

// namesMatch applies the substring + length-delta test to two raw names.
func namesMatch(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	if !strings.Contains(la, lb) && !strings.Contains(lb, la) {
		return false
	}
	diff := len(la) - len(lb)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 2
}
