package contracts

import "errors"

// Error taxonomy for the valuation core.
//
// ErrNotFound and ErrInsufficientData are the only conditions surfaced to
// callers as client-visible failures. Degraded data (partial merges, stale
// cache served, skipped peers) is logged and flagged on results instead of
// raised. Everything else wraps as a plain internal error.
var (
	// ErrNotFound indicates no resolvable price or no company data at all
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData indicates too few quarters for the requested computation
	ErrInsufficientData = errors.New("insufficient data")
)
