package valuation

import "github.com/wonny/fairval/internal/contracts"

// CalculateFairValue turns forward EPS and the justified P/E band into a
// fair-value price band, and classifies the current price against it.
// Upside is measured against the bound that triggered the verdict, or
// the midpoint when fairly valued.
func CalculateFairValue(forwardEps, justifiedPeLow, justifiedPeHigh, currentPrice float64) contracts.FairValue {
	low := forwardEps * justifiedPeLow
	high := forwardEps * justifiedPeHigh
	midpoint := (low + high) / 2

	var assessment string
	var upside float64
	switch {
	case currentPrice < low:
		assessment = contracts.AssessmentUndervalued
		upside = (low - currentPrice) / currentPrice * 100
	case currentPrice > high:
		assessment = contracts.AssessmentOvervalued
		upside = (high - currentPrice) / currentPrice * 100
	default:
		assessment = contracts.AssessmentFairlyValued
		upside = (midpoint - currentPrice) / currentPrice * 100
	}

	return contracts.FairValue{
		Low:           low,
		High:          high,
		Midpoint:      midpoint,
		CurrentPrice:  currentPrice,
		UpsidePercent: upside,
		Assessment:    assessment,
	}
}
