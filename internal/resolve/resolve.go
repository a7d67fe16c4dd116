// =============================================================================
// Bump Chart Delta Reconciler - Candidate Resolution
// =============================================================================
//
// The pricing source rarely returns a single unambiguous row. This package
// holds the two rankers that extract a best answer from ambiguous candidate
// sets:
//
//   - identity.go : picks one part key among records sharing a part number,
//     by lifecycle status rank and revision.
//   - price.go    : picks one historical price among PO rows, by date
//     threshold and price proximity, with fuzzy customer matching.
//
// Both are pure functions over candidate slices; all I/O lives in the plex
// client. "No qualifying candidate" is a result, never an error: it carries
// a status string that flows into the delta report unchanged.
//
// =============================================================================

package resolve

// Resolution is a best-effort selection. Found=false means no qualifying
// candidate survived filtering; Status explains why, in the exact wording
// surfaced on the report.
type Resolution[T any] struct {
	Value  T
	Found  bool
	Status string
}

// resolved wraps a successful selection.
func resolved[T any](v T, status string) Resolution[T] {
	return Resolution[T]{Value: v, Found: true, Status: status}
}

// unresolved wraps a no-candidate outcome.
func unresolved[T any](status string) Resolution[T] {
	return Resolution[T]{Status: status}
}
