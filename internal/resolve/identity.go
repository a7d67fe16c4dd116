package resolve

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// IdentityCandidate is one row from the part-key datasource. Ephemeral,
// scoped to a single resolution call.
type IdentityCandidate struct {
	PartKey      string
	Status       string
	Revision     string
	CustomerCode string
}

// statusRank orders lifecycle statuses most preferred first. Statuses not
// listed rank after all of these.
var statusRank = map[string]int{
	"Service":     0,
	"Production":  1,
	"Prototype":   2,
	"Development": 3,
	"Obsolete":    4,
}

// ResolveIdentity picks one part key among candidates sharing a part number.
//
// A non-empty customerCode filters candidates to those whose customer code
// matches it (case-insensitive, trimmed). The filter is strict: zero
// survivors means no identifier, even when unfiltered candidates exist.
//
// Survivors are ranked by lifecycle status, then by highest numeric
// revision (unparseable or missing revisions rank last). Remaining ties
// keep original order.
func ResolveIdentity(customerCode string, candidates []IdentityCandidate) Resolution[string] {
	wanted := strings.ToLower(strings.TrimSpace(customerCode))

	pool := candidates
	if wanted != "" {
		pool = nil
		for _, c := range candidates {
			if strings.ToLower(strings.TrimSpace(c.CustomerCode)) == wanted {
				pool = append(pool, c)
			}
		}
	}
	if len(pool) == 0 {
		return unresolved[string]("")
	}

	ranked := make([]IdentityCandidate, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := rankStatus(ranked[i].Status), rankStatus(ranked[j].Status)
		if ri != rj {
			return ri < rj
		}
		return revisionValue(ranked[i].Revision) > revisionValue(ranked[j].Revision)
	})

	return resolved(ranked[0].PartKey, "")
}

// rankStatus maps a lifecycle status to its priority; unknown statuses sort
// after every listed one.
func rankStatus(status string) int {
	if r, ok := statusRank[strings.TrimSpace(status)]; ok {
		return r
	}
	return len(statusRank)
}

// revisionValue parses a revision for comparison. Missing or non-numeric
// revisions are the lowest possible value.
func revisionValue(revision string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(revision), 64)
	if err != nil {
		return math.Inf(-1)
	}
	return v
}
