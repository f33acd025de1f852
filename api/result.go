package api

// ValueOr returns v, or fallback when err is non-nil. Every call in this
// package reports its error; callers that prefer a default say so here.
func ValueOr[T any](v T, err error, fallback T) T {
	if err != nil {
		return fallback
	}
	return v
}
