package valuation

import (
	"sort"
	"time"

	"github.com/wonny/fairval/internal/contracts"
)

// DeriveHistoricalPe computes the trailing P/E observed at each earnings
// report date. pricesByDate maps report dates (midnight UTC) to close
// prices, resolved by the price cache beforehand.
//
// Quarters with non-positive TTM EPS, a missing report date, or no
// resolvable price are excluded from the series, not zero-filled. A nil
// result means no valid sample existed; that is a legitimate valuation
// state, not a failure.
func DeriveHistoricalPe(records []contracts.FiscalQuarterRecord, pricesByDate map[time.Time]float64, ttmQuarters int) *contracts.HistoricalPe {
	sorted := make([]contracts.FiscalQuarterRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FiscalDate.Before(sorted[j].FiscalDate)
	})

	var samples []contracts.PeRatioSample

	for i := ttmQuarters - 1; i < len(sorted); i++ {
		quarter := sorted[i]
		if quarter.ReportedDate.IsZero() {
			continue
		}

		ttmEps := 0.0
		for j := i - ttmQuarters + 1; j <= i; j++ {
			ttmEps += sorted[j].EPS
		}
		if ttmEps <= 0 {
			continue
		}

		price, ok := pricesByDate[day(quarter.ReportedDate)]
		if !ok || price <= 0 {
			continue
		}

		samples = append(samples, contracts.PeRatioSample{
			Quarter:      quarter.FiscalQuarter,
			FiscalDate:   quarter.FiscalDate,
			ReportedDate: quarter.ReportedDate,
			EPS:          quarter.EPS,
			TTMEps:       ttmEps,
			Price:        price,
			PeRatio:      price / ttmEps,
		})
	}

	if len(samples) == 0 {
		return nil
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.PeRatio
	}
	lo, hi := minMax(values)

	return &contracts.HistoricalPe{
		Samples: samples,
		Average: mean(values),
		Median:  median(values),
		Min:     lo,
		Max:     hi,
		StdDev:  stdDev(values),
	}
}

// ReportDates collects the report dates eligible for historical P/E
// sampling, chronologically from the first quarter with a full trailing
// window.
func ReportDates(records []contracts.FiscalQuarterRecord, ttmQuarters int) []time.Time {
	sorted := make([]contracts.FiscalQuarterRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FiscalDate.Before(sorted[j].FiscalDate)
	})

	var dates []time.Time
	for i := ttmQuarters - 1; i < len(sorted); i++ {
		if !sorted[i].ReportedDate.IsZero() {
			dates = append(dates, day(sorted[i].ReportedDate))
		}
	}
	return dates
}

// day truncates to midnight UTC, the price cache's date key
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
