package valuation

import (
	"math"
	"sort"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/config"
)

// Margin trend labels
const (
	trendImproving = "improving"
	trendDeclining = "declining"
	trendStable    = "stable"
)

// DeriveFundamentalsPe scores a justified P/E from fundamentals: a market
// baseline adjusted for growth, margins, and leverage, floored at the
// configured minimum.
//
// Debt-to-equity uses a deliberately rough equity estimate of
// net income x a fixed multiplier rather than book equity. The
// approximation is preserved as-is: swapping in true book equity would
// change valuation outputs.
func DeriveFundamentalsPe(records []contracts.FiscalQuarterRecord, cfg config.ValuationConfig) contracts.FundamentalsAnalysis {
	sorted := make([]contracts.FiscalQuarterRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FiscalDate.Before(sorted[j].FiscalDate)
	})

	epsCagr := quarterlyCagr(collect(sorted, func(r contracts.FiscalQuarterRecord) float64 { return r.EPS }))
	revenueCagr := quarterlyCagr(collect(sorted, func(r contracts.FiscalQuarterRecord) float64 { return r.Revenue }))

	// Margin picture over the last 4 quarters
	recent := sorted
	if len(recent) > 4 {
		recent = recent[len(recent)-4:]
	}
	var netMargins []float64
	for _, r := range recent {
		if r.NetMargin != 0 {
			netMargins = append(netMargins, r.NetMargin)
		}
	}
	avgNetMargin := mean(netMargins)

	marginTrend := trendStable
	if len(netMargins) >= 4 {
		if netMargins[len(netMargins)-1] > netMargins[0] {
			marginTrend = trendImproving
		} else {
			marginTrend = trendDeclining
		}
	}

	// Leverage from the latest quarter, equity approximated from earnings
	debtToEquity := 0.0
	if len(sorted) > 0 {
		latest := sorted[len(sorted)-1]
		equityEstimate := 1.0
		if latest.NetIncome > 0 {
			equityEstimate = latest.NetIncome * cfg.EquityEstimateMultiplier
		}
		debtToEquity = latest.TotalDebt / equityEstimate
	}

	avgGrowth := (epsCagr + revenueCagr) / 2
	growthAdjustment := cfg.GrowthMultiplier * avgGrowth * 100

	marginAdjustment := 0.0
	if avgNetMargin > cfg.ExcellentNetMargin {
		marginAdjustment += cfg.MarginExcellentBonus
	}
	if marginTrend == trendImproving {
		marginAdjustment += cfg.MarginImprovingBonus
	}

	riskAdjustment := 0.0
	if debtToEquity > cfg.HighDebtToEquity {
		riskAdjustment += cfg.DebtRiskPenalty
	}
	if marginTrend == trendDeclining {
		riskAdjustment += cfg.DecliningMarginPenalty
	}

	fundamentalsPe := cfg.BaseMarketPE + growthAdjustment + marginAdjustment + riskAdjustment
	if fundamentalsPe < cfg.MinPE {
		fundamentalsPe = cfg.MinPE
	}

	quarterly := make([]contracts.QuarterlyMetric, len(sorted))
	for i, r := range sorted {
		quarterly[i] = contracts.QuarterlyMetric{
			Quarter:      r.FiscalQuarter,
			FiscalDate:   r.FiscalDate,
			EPS:          r.EPS,
			RevenueM:     r.Revenue / 1e6,
			NetMarginP:   r.NetMargin * 100,
			GrossMarginP: r.GrossMargin * 100,
		}
	}

	return contracts.FundamentalsAnalysis{
		FundamentalsPe: fundamentalsPe,
		Components: contracts.FundamentalsComponents{
			BasePe:           cfg.BaseMarketPE,
			GrowthAdjustment: growthAdjustment,
			MarginAdjustment: marginAdjustment,
			RiskAdjustment:   riskAdjustment,
		},
		Metrics: contracts.FundamentalsMetrics{
			EpsGrowthRate:     epsCagr,
			RevenueGrowthRate: revenueCagr,
			AvgNetMargin:      avgNetMargin,
			MarginTrend:       marginTrend,
			DebtToEquity:      debtToEquity,
		},
		QuarterlyMetrics: quarterly,
	}
}

// collect extracts the positive values of a field in chronological order
func collect(sorted []contracts.FiscalQuarterRecord, field func(contracts.FiscalQuarterRecord) float64) []float64 {
	var values []float64
	for _, r := range sorted {
		if v := field(r); v > 0 {
			values = append(values, v)
		}
	}
	return values
}

// quarterlyCagr annualizes growth between the first and last value of a
// quarterly series spanning the full available window
func quarterlyCagr(values []float64) float64 {
	if len(values) < 4 {
		return 0
	}
	years := float64(len(values)-1) / 4
	if years <= 0 {
		return 0
	}
	return math.Pow(values[len(values)-1]/values[0], 1/years) - 1
}
