package lexis

// sanitizeK resolves a requested result count against a cap: a non-positive
// request or one above the cap yields the cap itself. Per-query counts can
// only narrow the configured maximum.
func sanitizeK(k, maxResults int) int {
	if k <= 0 || k > maxResults {
		return maxResults
	}
	return k
}

// limitResults keeps the first k entries of results; k <= 0 keeps all.
func limitResults[T any](results []T, k int) []T {
	return results[:sanitizeK(k, len(results))]
}
