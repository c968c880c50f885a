package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairval/internal/contracts"
)

// reportedSeries builds quarters ending 2024-12-31, each reported 45
// days after its fiscal close
func reportedSeries(eps ...float64) []contracts.FiscalQuarterRecord {
	records := epsSeries(eps...)
	for i := range records {
		records[i].ReportedDate = records[i].FiscalDate.AddDate(0, 0, 45)
	}
	return records
}

func pricesFor(records []contracts.FiscalQuarterRecord, price float64) map[time.Time]float64 {
	prices := make(map[time.Time]float64)
	for _, r := range records {
		if !r.ReportedDate.IsZero() {
			prices[day(r.ReportedDate)] = price
		}
	}
	return prices
}

func TestDeriveHistoricalPe_ConstantEpsAndPrice(t *testing.T) {
	records := reportedSeries(1.0, 1.0, 1.0, 1.0, 1.0)
	prices := pricesFor(records, 40.0)

	result := DeriveHistoricalPe(records, prices, 4)
	require.NotNil(t, result)

	// Quarters 4 and 5 have a full trailing window; TTM EPS 4, price 40
	require.Len(t, result.Samples, 2)
	assert.InDelta(t, 10.0, result.Average, 1e-9)
	assert.InDelta(t, 10.0, result.Median, 1e-9)
	assert.InDelta(t, 10.0, result.Min, 1e-9)
	assert.InDelta(t, 10.0, result.Max, 1e-9)
	assert.InDelta(t, 0.0, result.StdDev, 1e-9)
}

func TestDeriveHistoricalPe_SkipsNonPositiveTTM(t *testing.T) {
	// The loss quarter drags every trailing window nonpositive except the
	// last one
	records := reportedSeries(1.0, 1.0, -5.0, 1.0, 1.0, 1.0, 1.0)
	prices := pricesFor(records, 40.0)

	result := DeriveHistoricalPe(records, prices, 4)
	require.NotNil(t, result)

	require.Len(t, result.Samples, 1)
	assert.InDelta(t, 10.0, result.Samples[0].PeRatio, 1e-9)
}

func TestDeriveHistoricalPe_SkipsMissingPrices(t *testing.T) {
	records := reportedSeries(1.0, 1.0, 1.0, 1.0, 1.0)

	result := DeriveHistoricalPe(records, map[time.Time]float64{}, 4)
	assert.Nil(t, result)
}

func TestDeriveHistoricalPe_SkipsMissingReportDates(t *testing.T) {
	records := epsSeries(1.0, 1.0, 1.0, 1.0, 1.0)

	result := DeriveHistoricalPe(records, map[time.Time]float64{}, 4)
	assert.Nil(t, result)
}

func TestReportDates_RequiresFullTrailingWindow(t *testing.T) {
	records := reportedSeries(1.0, 1.0, 1.0, 1.0, 1.0, 1.0)

	dates := ReportDates(records, 4)
	// Quarters 4, 5, 6 are eligible
	require.Len(t, dates, 3)
	for _, d := range dates {
		assert.Equal(t, d, day(d))
	}
}
