package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/fairval/internal/contracts"
)

func TestCalculateFairValue_Undervalued(t *testing.T) {
	fv := CalculateFairValue(5.0, 18.0, 22.0, 80.0)

	assert.InDelta(t, 90.0, fv.Low, 1e-9)
	assert.InDelta(t, 110.0, fv.High, 1e-9)
	assert.InDelta(t, 100.0, fv.Midpoint, 1e-9)
	assert.Equal(t, contracts.AssessmentUndervalued, fv.Assessment)
	// Upside to the low bound: (90-80)/80
	assert.InDelta(t, 12.5, fv.UpsidePercent, 1e-9)
}

func TestCalculateFairValue_Overvalued(t *testing.T) {
	fv := CalculateFairValue(5.0, 18.0, 22.0, 125.0)

	assert.Equal(t, contracts.AssessmentOvervalued, fv.Assessment)
	// Downside to the high bound: (110-125)/125
	assert.InDelta(t, -12.0, fv.UpsidePercent, 1e-9)
}

func TestCalculateFairValue_FairlyValued(t *testing.T) {
	fv := CalculateFairValue(5.0, 18.0, 22.0, 95.0)

	assert.Equal(t, contracts.AssessmentFairlyValued, fv.Assessment)
	// Distance to the midpoint: (100-95)/95
	assert.InDelta(t, 100.0/95.0*5.0, fv.UpsidePercent, 1e-6)
}

func TestCalculateFairValue_BoundsAreInclusive(t *testing.T) {
	atLow := CalculateFairValue(5.0, 18.0, 22.0, 90.0)
	assert.Equal(t, contracts.AssessmentFairlyValued, atLow.Assessment)

	atHigh := CalculateFairValue(5.0, 18.0, 22.0, 110.0)
	assert.Equal(t, contracts.AssessmentFairlyValued, atHigh.Assessment)
}

func TestCalculateFairValue_BandOrdering(t *testing.T) {
	fv := CalculateFairValue(3.2, 12.0, 30.0, 50.0)

	assert.LessOrEqual(t, fv.Low, fv.Midpoint)
	assert.LessOrEqual(t, fv.Midpoint, fv.High)
}
