package mergekit

// FirstMatch returns the first element satisfying pred, or fallback when none
// does. Used by callers to pull "the first statement of a given kind" out of
// an ordered sequence without re-implementing the scan.
func FirstMatch[T any](items []T, pred func(T) bool, fallback T) T {
	for _, it := range items {
		if pred(it) {
			return it
		}
	}
	return fallback
}
