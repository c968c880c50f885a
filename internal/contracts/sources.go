package contracts

import (
	"context"
	"time"
)

// Raw vendor records. The vendor clients map their wire formats into these
// shapes; a statement Transformer merges them into FiscalQuarterRecords.
// Vendors signal failure with empty slices, never panics into the core.

// ProfileRecord is a company profile as returned by a vendor
type ProfileRecord struct {
	Name     string
	Sector   string
	Industry string
}

// EarningsRecord is one quarter of reported EPS
type EarningsRecord struct {
	FiscalDate   time.Time
	ReportedDate time.Time
	ReportedEPS  float64
}

// IncomeRecord is one quarter of income statement figures
type IncomeRecord struct {
	FiscalDate  time.Time
	Period      string // vendor-specific period label ("Q3"), may be empty
	Revenue     float64
	GrossProfit float64
	NetIncome   float64
}

// CashFlowRecord is one quarter of cash flow statement figures
type CashFlowRecord struct {
	FiscalDate         time.Time
	OperatingCashFlow  float64
	CapitalExpenditure float64 // vendors usually report this negative
}

// BalanceSheetRecord is one quarter of balance sheet figures
type BalanceSheetRecord struct {
	FiscalDate         time.Time
	CashAndEquivalents float64
	ShortTermDebt      float64
	LongTermDebt       float64
}

// PriceBar is one daily price bar as returned by a vendor
type PriceBar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// FundamentalsSource fetches financial statement data from an external
// vendor. Implementations are rate-limited internally; the valuation core
// only sees added latency.
type FundamentalsSource interface {
	CompanyProfile(ctx context.Context, ticker string) (*ProfileRecord, error)
	Earnings(ctx context.Context, ticker string, limit int) ([]EarningsRecord, error)
	IncomeStatements(ctx context.Context, ticker string, limit int) ([]IncomeRecord, error)
	CashFlowStatements(ctx context.Context, ticker string, limit int) ([]CashFlowRecord, error)
	BalanceSheets(ctx context.Context, ticker string, limit int) ([]BalanceSheetRecord, error)
}

// PriceSource fetches price data from an external vendor
type PriceSource interface {
	HistoricalPrices(ctx context.Context, ticker string, from, to time.Time) ([]PriceBar, error)
	CurrentQuote(ctx context.Context, ticker string) (float64, error)
}
