package valuation

import (
	"time"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/config"
)

func testConfig() config.ValuationConfig {
	return config.ValuationConfig{
		DataSource:              "alphavantage",
		FundamentalsMaxAgeDays:  30,
		ReportTTL:               24 * time.Hour,
		NumQuarters:             16,
		PriceLookupWindowDays:   5,
		PriceFetchBufferDays:    7,
		MinQuartersForValuation: 8,
		TTMQuarters:             4,
		BaseMarketPE:            22.0,
		GrowthMultiplier:        0.5,
		MinPE:                   5.0,

		ExcellentNetMargin:       0.20,
		MarginExcellentBonus:     3.0,
		MarginImprovingBonus:     2.0,
		HighDebtToEquity:         1.5,
		DebtRiskPenalty:          -2.0,
		DecliningMarginPenalty:   -2.0,
		EquityEstimateMultiplier: 20.0,

		WeightHistorical:   0.4,
		WeightPeer:         0.3,
		WeightFundamentals: 0.3,
	}
}

// epsQuarter builds a minimal record carrying only an EPS series point
func epsQuarter(fiscalDate string, eps float64) contracts.FiscalQuarterRecord {
	d, _ := time.Parse("2006-01-02", fiscalDate)
	return contracts.FiscalQuarterRecord{
		Ticker:     "TEST",
		FiscalDate: d,
		EPS:        eps,
	}
}

// epsSeries builds consecutive quarters ending 2024-12-31, oldest first
func epsSeries(eps ...float64) []contracts.FiscalQuarterRecord {
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	records := make([]contracts.FiscalQuarterRecord, len(eps))
	for i := range eps {
		records[i] = contracts.FiscalQuarterRecord{
			Ticker:     "TEST",
			FiscalDate: end.AddDate(0, -3*(len(eps)-1-i), 0),
			EPS:        eps[i],
		}
	}
	return records
}
