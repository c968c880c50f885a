// Package freshness decides whether cached data may be served or must be
// refetched. All functions are pure: stale/fresh is a function of fetch
// time, the data's own reference date, and the caller-supplied clock.
package freshness

import "time"

const (
	// Prices older than this never change again once fetched
	priceSettledAfterDays = 30

	// Recent prices may still receive corrections; refetch after this
	recentPriceMaxAge = 24 * time.Hour
)

// FundamentalsFresh reports whether a fundamentals record fetched at
// fetchedAt is still fresh at now, given the configured maximum age in
// days. Fiscal period age is irrelevant; only fetch age counts.
func FundamentalsFresh(fetchedAt, now time.Time, maxAgeDays int) bool {
	if fetchedAt.IsZero() {
		return false
	}
	return now.Sub(fetchedAt) < time.Duration(maxAgeDays)*24*time.Hour
}

// PriceFresh reports whether a cached price is still fresh at now.
//
// A price whose trading date is more than 30 days in the past is settled:
// closed-period market prices never change, so once fetched it is fresh
// forever. A price within the last 30 days is fresh only if fetched within
// the last 24 hours, which allows late corrections and adjusted-close
// updates to come through.
func PriceFresh(fetchedAt, tradeDate, now time.Time) bool {
	if fetchedAt.IsZero() {
		return false
	}

	dataAge := now.Sub(tradeDate)
	if dataAge > priceSettledAfterDays*24*time.Hour {
		return true
	}

	return now.Sub(fetchedAt) < recentPriceMaxAge
}
