package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestSynthesizeJustifiedPe_AllThreeInputs(t *testing.T) {
	band := SynthesizeJustifiedPe(floatPtr(20.0), floatPtr(25.0), 22.0, testConfig())

	// 20*0.4 + 25*0.3 + 22*0.3 = 22.1
	assert.InDelta(t, 22.1, band.Midpoint, 1e-9)
	assert.Less(t, band.Low, band.Midpoint)
	assert.Greater(t, band.High, band.Midpoint)

	assert.InDelta(t, 0.4, band.Weights["historical"], 1e-9)
	assert.InDelta(t, 0.3, band.Weights["peer"], 1e-9)
	assert.InDelta(t, 0.3, band.Weights["fundamentals"], 1e-9)
}

func TestSynthesizeJustifiedPe_FundamentalsOnly(t *testing.T) {
	band := SynthesizeJustifiedPe(nil, nil, 20.0, testConfig())

	// A single input carries full weight and a plain 10% half-width
	assert.InDelta(t, 20.0, band.Midpoint, 1e-9)
	assert.InDelta(t, 18.0, band.Low, 1e-9)
	assert.InDelta(t, 22.0, band.High, 1e-9)
	assert.InDelta(t, 1.0, band.Weights["fundamentals"], 1e-9)
	assert.NotContains(t, band.Weights, "historical")
	assert.NotContains(t, band.Weights, "peer")
}

func TestSynthesizeJustifiedPe_RenormalizesWithoutPeers(t *testing.T) {
	band := SynthesizeJustifiedPe(floatPtr(20.0), nil, 20.0, testConfig())

	// 0.4 and 0.3 renormalize to 4/7 and 3/7
	assert.InDelta(t, 4.0/7.0, band.Weights["historical"], 1e-9)
	assert.InDelta(t, 3.0/7.0, band.Weights["fundamentals"], 1e-9)
	assert.InDelta(t, 20.0, band.Midpoint, 1e-9)
}

func TestSynthesizeJustifiedPe_IgnoresNonPositiveInputs(t *testing.T) {
	band := SynthesizeJustifiedPe(floatPtr(-3.0), floatPtr(0.0), 20.0, testConfig())

	assert.InDelta(t, 20.0, band.Midpoint, 1e-9)
	assert.InDelta(t, 1.0, band.Weights["fundamentals"], 1e-9)
}

func TestSynthesizeJustifiedPe_WidensForDisagreement(t *testing.T) {
	// Spread far beyond 10% of the midpoint
	band := SynthesizeJustifiedPe(floatPtr(10.0), floatPtr(40.0), 25.0, testConfig())

	halfWidth := (band.High - band.Low) / 2
	assert.Greater(t, halfWidth, band.Midpoint*0.1)
}

func TestSynthesizeJustifiedPe_FloorsLowBound(t *testing.T) {
	band := SynthesizeJustifiedPe(nil, nil, 5.0, testConfig())

	assert.GreaterOrEqual(t, band.Low, testConfig().MinPE)
}
