package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairval/internal/contracts"
)

func TestEstimateForwardEpsGrowth_ConstantSeries(t *testing.T) {
	records := epsSeries(1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0)

	est, err := EstimateForwardEpsGrowth(records)
	require.NoError(t, err)

	assert.Equal(t, contracts.MethodGrowth, est.Method)
	assert.InDelta(t, 0.0, est.GrowthRate, 1e-9)
	assert.InDelta(t, 4.0, est.ForwardEPS, 1e-9)
	require.Len(t, est.QuarterlyEstimates, 4)
	for _, q := range est.QuarterlyEstimates {
		assert.InDelta(t, 1.0, q, 1e-9)
	}
}

func TestEstimateForwardEpsGrowth_RisingSeries(t *testing.T) {
	records := epsSeries(1.0, 1.1, 1.21, 1.331)

	est, err := EstimateForwardEpsGrowth(records)
	require.NoError(t, err)

	// 10% per-quarter growth compounds off the latest quarter
	assert.InDelta(t, 0.10, est.GrowthRate, 1e-9)
	assert.InDelta(t, 1.331*1.1, est.QuarterlyEstimates[0], 1e-9)
	assert.Greater(t, est.ForwardEPS, 4*1.331)
}

func TestEstimateForwardEpsGrowth_IgnoresLossQuarters(t *testing.T) {
	// Only 3 positive quarters remain after filtering
	records := epsSeries(1.0, -0.5, 1.1, -0.2, 1.2, -1.0)

	_, err := EstimateForwardEpsGrowth(records)
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestEstimateForwardEpsRegression_LinearSeries(t *testing.T) {
	records := epsSeries(1.0, 2.0, 3.0, 4.0)

	est, err := EstimateForwardEpsRegression(records)
	require.NoError(t, err)

	assert.Equal(t, contracts.MethodRegression, est.Method)
	assert.InDelta(t, 1.0, est.Slope, 1e-9)
	assert.InDelta(t, 1.0, est.Intercept, 1e-9)
	assert.InDelta(t, 1.0, est.RSquared, 1e-9)

	// Projections continue the line: 5, 6, 7, 8
	require.Len(t, est.QuarterlyEstimates, 4)
	assert.InDelta(t, 5.0, est.QuarterlyEstimates[0], 1e-9)
	assert.InDelta(t, 8.0, est.QuarterlyEstimates[3], 1e-9)
	assert.InDelta(t, 26.0, est.ForwardEPS, 1e-9)
}

func TestEstimateForwardEpsRegression_FlatSeriesHasZeroRSquared(t *testing.T) {
	records := epsSeries(2.0, 2.0, 2.0, 2.0, 2.0)

	est, err := EstimateForwardEpsRegression(records)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, est.Slope, 1e-9)
	assert.InDelta(t, 0.0, est.RSquared, 1e-9)
	assert.InDelta(t, 8.0, est.ForwardEPS, 1e-9)
}

func TestEstimateForwardEpsRegression_FloorsNegativeProjections(t *testing.T) {
	// Steeply declining series projects below zero
	records := epsSeries(4.0, 3.0, 2.0, 1.0)

	est, err := EstimateForwardEpsRegression(records)
	require.NoError(t, err)

	for _, q := range est.QuarterlyEstimates {
		assert.GreaterOrEqual(t, q, 0.0)
	}
}

func TestEstimators_SortInputChronologically(t *testing.T) {
	// Same quarters in reverse order must give identical results
	asc := epsSeries(1.0, 2.0, 3.0, 4.0)
	desc := make([]contracts.FiscalQuarterRecord, len(asc))
	for i, r := range asc {
		desc[len(asc)-1-i] = r
	}

	fromAsc, err := EstimateForwardEpsRegression(asc)
	require.NoError(t, err)
	fromDesc, err := EstimateForwardEpsRegression(desc)
	require.NoError(t, err)

	assert.InDelta(t, fromAsc.ForwardEPS, fromDesc.ForwardEPS, 1e-9)
	assert.InDelta(t, fromAsc.Slope, fromDesc.Slope, 1e-9)
}
