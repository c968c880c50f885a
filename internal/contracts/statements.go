package contracts

import "time"

// FiscalQuarterRecord is one quarter of merged fundamentals for a ticker.
// Identity is (Ticker, FiscalQuarter); the statement cache upserts on it.
// Estimators receive these as an immutable snapshot within a valuation run.
type FiscalQuarterRecord struct {
	Ticker        string    `json:"ticker"`
	FiscalQuarter string    `json:"quarter"`     // e.g. "2024-Q3"
	FiscalDate    time.Time `json:"fiscal_date"` // fiscal period end
	ReportedDate  time.Time `json:"reported_date,omitzero"`
	EPS           float64   `json:"eps"`
	Revenue       float64   `json:"revenue"`
	GrossIncome   float64   `json:"gross_income"`
	GrossMargin   float64   `json:"gross_margin"`
	NetIncome     float64   `json:"net_income"`
	NetMargin     float64   `json:"net_margin"`
	Capex         float64   `json:"capex"`
	FreeCashFlow  float64   `json:"free_cash_flow"`
	CashBalance   float64   `json:"cash_balance"`
	TotalDebt     float64   `json:"total_debt"`
	Source        string    `json:"source"`
	Degraded      bool      `json:"degraded,omitempty"` // a counterpart statement was missing at merge time
	FetchedAt     time.Time `json:"fetched_at"`
}

// Company is the profile row maintained alongside fundamentals
type Company struct {
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	Sector      string    `json:"sector,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}
