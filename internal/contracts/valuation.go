package contracts

import (
	"sort"
	"strings"
	"time"
)

// Estimation method tags
const (
	MethodGrowth     = "growth"
	MethodRegression = "regression"
)

// Valuation assessments
const (
	AssessmentUndervalued  = "Undervalued"
	AssessmentOvervalued   = "Overvalued"
	AssessmentFairlyValued = "Fairly Valued"
)

// HistoricalEps is one quarter of the EPS series an estimator operated on
type HistoricalEps struct {
	Quarter       string    `json:"quarter"`
	FiscalDate    time.Time `json:"fiscal_date"`
	EPS           float64   `json:"eps"`
	RegressionFit float64   `json:"regression_fit,omitempty"` // regression method only
}

// ForwardEpsEstimate is a forward 4-quarter EPS forecast from one method
type ForwardEpsEstimate struct {
	Method             string          `json:"method"` // MethodGrowth or MethodRegression
	ForwardEPS         float64         `json:"forward_eps"`
	QuarterlyEstimates []float64       `json:"quarterly_estimates"`
	HistoricalEPS      []HistoricalEps `json:"historical_eps"`

	// Growth method diagnostics
	GrowthRate float64 `json:"growth_rate,omitempty"`

	// Regression method diagnostics
	Slope     float64 `json:"slope,omitempty"`
	Intercept float64 `json:"intercept,omitempty"`
	RSquared  float64 `json:"r_squared,omitempty"`
}

// PeRatioSample is one historical P/E observation at an earnings report date
type PeRatioSample struct {
	Quarter      string    `json:"quarter"`
	FiscalDate   time.Time `json:"fiscal_date"`
	ReportedDate time.Time `json:"reported_date"`
	EPS          float64   `json:"eps"`
	TTMEps       float64   `json:"ttm_eps"`
	Price        float64   `json:"price"`
	PeRatio      float64   `json:"pe_ratio"`
}

// HistoricalPe holds the historical P/E series and its statistics.
// Statistics are derived from the samples, never stored independently.
type HistoricalPe struct {
	Samples []PeRatioSample `json:"pe_ratios"`
	Average float64         `json:"average"`
	Median  float64         `json:"median"`
	Min     float64         `json:"min"`
	Max     float64         `json:"max"`
	StdDev  float64         `json:"std_dev"`
}

// PeerPeRatio is one peer's current trailing P/E
type PeerPeRatio struct {
	Ticker string  `json:"ticker"`
	Pe     float64 `json:"pe"`
	TTMEps float64 `json:"ttm_eps"`
	Price  float64 `json:"price"`
}

// PeerComparison aggregates trailing P/E across valid peers
type PeerComparison struct {
	Peers     []PeerPeRatio `json:"peer_pe_ratios"`
	AveragePe float64       `json:"average_pe"`
	MedianPe  float64       `json:"median_pe"`
	Range     [2]float64    `json:"range"`
}

// FundamentalsComponents breaks the fundamentals P/E into its adjustments
type FundamentalsComponents struct {
	BasePe           float64 `json:"base_pe"`
	GrowthAdjustment float64 `json:"growth_adjustment"`
	MarginAdjustment float64 `json:"margin_adjustment"`
	RiskAdjustment   float64 `json:"risk_adjustment"`
}

// FundamentalsMetrics holds the inputs behind the fundamentals P/E
type FundamentalsMetrics struct {
	EpsGrowthRate     float64 `json:"eps_growth_rate"`     // annualized CAGR
	RevenueGrowthRate float64 `json:"revenue_growth_rate"` // annualized CAGR
	AvgNetMargin      float64 `json:"avg_net_margin"`
	MarginTrend       string  `json:"margin_trend"` // improving, declining, stable
	DebtToEquity      float64 `json:"debt_to_equity"`
}

// QuarterlyMetric is a per-quarter fundamentals slice for reporting
type QuarterlyMetric struct {
	Quarter      string    `json:"quarter"`
	FiscalDate   time.Time `json:"fiscal_date"`
	EPS          float64   `json:"eps"`
	RevenueM     float64   `json:"revenue_millions"`
	NetMarginP   float64   `json:"net_margin_pct"`
	GrossMarginP float64   `json:"gross_margin_pct"`
}

// FundamentalsAnalysis is the rule-based P/E derived from fundamentals
type FundamentalsAnalysis struct {
	FundamentalsPe   float64                `json:"fundamentals_pe"`
	Components       FundamentalsComponents `json:"components"`
	Metrics          FundamentalsMetrics    `json:"metrics"`
	QuarterlyMetrics []QuarterlyMetric      `json:"quarterly_metrics"`
}

// JustifiedPeBand is the weighted consensus P/E range
type JustifiedPeBand struct {
	Low      float64            `json:"justified_pe_low"`
	High     float64            `json:"justified_pe_high"`
	Midpoint float64            `json:"justified_pe_midpoint"`
	Weights  map[string]float64 `json:"weighting"` // normalized, keyed historical/peer/fundamentals
}

// FairValue is the fair-value price band with its verdict
type FairValue struct {
	Low           float64 `json:"fair_value_low"`
	High          float64 `json:"fair_value_high"`
	Midpoint      float64 `json:"fair_value_midpoint"`
	CurrentPrice  float64 `json:"current_price"`
	UpsidePercent float64 `json:"upside_percent"`
	Assessment    string  `json:"assessment"`
}

// CurrentMetrics is the current price/EPS snapshot of the valued ticker
type CurrentMetrics struct {
	CurrentPrice float64 `json:"current_price"`
	TTMEps       float64 `json:"ttm_eps"`
	CurrentPe    float64 `json:"current_pe,omitempty"` // 0 when TTM EPS is not positive
}

// ValuationReport is the full valuation snapshot persisted per
// (ticker, sorted peer set). Recomputation replaces the row in place.
type ValuationReport struct {
	Ticker      string   `json:"symbol"`
	CompanyName string   `json:"company_name"`
	Peers       []string `json:"peers,omitempty"`

	Current           CurrentMetrics       `json:"current_metrics"`
	ForwardGrowth     ForwardEpsEstimate   `json:"forward_eps_growth"`
	ForwardRegression ForwardEpsEstimate   `json:"forward_eps_regression"`
	ForwardEPS        float64              `json:"forward_eps_recommended"` // average of both methods
	HistoricalPe      *HistoricalPe        `json:"historical_pe,omitempty"`
	PeerComparison    *PeerComparison      `json:"peer_comparison,omitempty"`
	Fundamentals      FundamentalsAnalysis `json:"fundamentals_analysis"`
	JustifiedPe       JustifiedPeBand      `json:"justified_pe"`
	FairValue         FairValue            `json:"fair_value"`

	QuartersUsed int       `json:"quarters_analyzed"`
	Degraded     bool      `json:"degraded,omitempty"` // served from stale fundamentals
	GeneratedAt  time.Time `json:"generated_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// PeerKey normalizes a peer list into the cache identity key:
// uppercased, sorted, comma-joined. Empty for no peers.
func PeerKey(peers []string) string {
	if len(peers) == 0 {
		return ""
	}
	normalized := make([]string, 0, len(peers))
	for _, p := range peers {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
