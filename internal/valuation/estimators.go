package valuation

import (
	"fmt"
	"math"
	"sort"

	"github.com/wonny/fairval/internal/contracts"
)

// minEstimatorQuarters is the floor for both forward EPS methods: fewer
// than 4 positive-EPS quarters is not enough signal to extrapolate from.
const minEstimatorQuarters = 4

const projectionQuarters = 4

// positiveEpsSeries sorts records chronologically and keeps the quarters
// with positive EPS, which is the series both estimators operate on.
func positiveEpsSeries(records []contracts.FiscalQuarterRecord) []contracts.FiscalQuarterRecord {
	sorted := make([]contracts.FiscalQuarterRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FiscalDate.Before(sorted[j].FiscalDate)
	})

	series := sorted[:0]
	for _, r := range sorted {
		if r.EPS > 0 {
			series = append(series, r)
		}
	}
	return series
}

// EstimateForwardEpsGrowth projects forward 4-quarter EPS by compounding
// the average quarter-over-quarter growth rate of the historical series.
func EstimateForwardEpsGrowth(records []contracts.FiscalQuarterRecord) (*contracts.ForwardEpsEstimate, error) {
	series := positiveEpsSeries(records)
	if len(series) < minEstimatorQuarters {
		return nil, fmt.Errorf("growth method needs at least %d positive-EPS quarters, have %d: %w",
			minEstimatorQuarters, len(series), contracts.ErrInsufficientData)
	}

	// Per-step growth ratios across consecutive quarters
	growthRates := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		growthRates = append(growthRates, series[i].EPS/series[i-1].EPS-1)
	}
	avgGrowth := mean(growthRates)

	latest := series[len(series)-1].EPS
	estimates := make([]float64, projectionQuarters)
	forward := 0.0
	for i := 0; i < projectionQuarters; i++ {
		estimates[i] = latest * math.Pow(1+avgGrowth, float64(i+1))
		forward += estimates[i]
	}

	historical := make([]contracts.HistoricalEps, len(series))
	for i, r := range series {
		historical[i] = contracts.HistoricalEps{
			Quarter:    r.FiscalQuarter,
			FiscalDate: r.FiscalDate,
			EPS:        r.EPS,
		}
	}

	return &contracts.ForwardEpsEstimate{
		Method:             contracts.MethodGrowth,
		ForwardEPS:         forward,
		QuarterlyEstimates: estimates,
		HistoricalEPS:      historical,
		GrowthRate:         avgGrowth,
	}, nil
}

// EstimateForwardEpsRegression projects forward 4-quarter EPS from an
// ordinary least squares fit of EPS against quarter index. Projections
// are floored at zero.
func EstimateForwardEpsRegression(records []contracts.FiscalQuarterRecord) (*contracts.ForwardEpsEstimate, error) {
	series := positiveEpsSeries(records)
	if len(series) < minEstimatorQuarters {
		return nil, fmt.Errorf("regression method needs at least %d positive-EPS quarters, have %d: %w",
			minEstimatorQuarters, len(series), contracts.ErrInsufficientData)
	}

	n := len(series)

	// OLS closed form on x = 0..n-1
	var sumX, sumY, sumXY, sumXX float64
	for i, r := range series {
		x := float64(i)
		sumX += x
		sumY += r.EPS
		sumXY += x * r.EPS
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	// R² against the mean; a flat series has no variance to explain
	meanY := sumY / fn
	var ssRes, ssTot float64
	for i, r := range series {
		fit := slope*float64(i) + intercept
		ssRes += (r.EPS - fit) * (r.EPS - fit)
		ssTot += (r.EPS - meanY) * (r.EPS - meanY)
	}
	rSquared := 0.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	estimates := make([]float64, projectionQuarters)
	forward := 0.0
	for i := 0; i < projectionQuarters; i++ {
		estimate := slope*float64(n+i) + intercept
		if estimate < 0 {
			estimate = 0
		}
		estimates[i] = estimate
		forward += estimate
	}

	historical := make([]contracts.HistoricalEps, len(series))
	for i, r := range series {
		historical[i] = contracts.HistoricalEps{
			Quarter:       r.FiscalQuarter,
			FiscalDate:    r.FiscalDate,
			EPS:           r.EPS,
			RegressionFit: slope*float64(i) + intercept,
		}
	}

	return &contracts.ForwardEpsEstimate{
		Method:             contracts.MethodRegression,
		ForwardEPS:         forward,
		QuarterlyEstimates: estimates,
		HistoricalEPS:      historical,
		Slope:              slope,
		Intercept:          intercept,
		RSquared:           rSquared,
	}, nil
}
