package contracts

import (
	"context"
	"time"
)

// StatementRepository manages merged quarterly fundamentals
type StatementRepository interface {
	GetByTicker(ctx context.Context, ticker string, limit int) ([]FiscalQuarterRecord, error)
	Upsert(ctx context.Context, record *FiscalQuarterRecord) error
	UpsertBatch(ctx context.Context, records []FiscalQuarterRecord) error
	DeleteByTicker(ctx context.Context, ticker string) error
}

// PriceRepository manages cached daily price points
type PriceRepository interface {
	GetByTickerAndDate(ctx context.Context, ticker string, date time.Time) (*PricePoint, error)
	GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]PricePoint, error)
	GetLatestByTicker(ctx context.Context, ticker string) (*PricePoint, error)
	Upsert(ctx context.Context, point *PricePoint) error
	UpsertBatch(ctx context.Context, points []PricePoint) error
}

// CompanyRepository manages company profile rows
type CompanyRepository interface {
	GetByTicker(ctx context.Context, ticker string) (*Company, error)
	ListTickers(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, company *Company) error
}

// ReportRepository manages persisted valuation reports keyed by
// (ticker, normalized peer key)
type ReportRepository interface {
	Get(ctx context.Context, ticker, peerKey string) (*ValuationReport, error)
	Upsert(ctx context.Context, report *ValuationReport) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
