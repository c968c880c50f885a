package jobs

import (
	"context"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/logger"
)

// StatementFetcher is what the refresh job needs from the statement
// cache manager. Get fetches only when the cached quarters are stale,
// so an off-hours sweep keeps tracked tickers warm without burning
// vendor quota on fresh ones.
type StatementFetcher interface {
	Get(ctx context.Context, ticker string) ([]contracts.FiscalQuarterRecord, bool, error)
}

// StatementRefreshJob re-warms stale fundamentals for tracked tickers
type StatementRefreshJob struct {
	companies  contracts.CompanyRepository
	statements StatementFetcher
	logger     *logger.Logger
}

// NewStatementRefreshJob creates a new statement refresh job
func NewStatementRefreshJob(
	companies contracts.CompanyRepository,
	statements StatementFetcher,
	log *logger.Logger,
) *StatementRefreshJob {
	return &StatementRefreshJob{
		companies:  companies,
		statements: statements,
		logger:     log,
	}
}

// Name returns the job name
func (j *StatementRefreshJob) Name() string {
	return "statement_refresh"
}

// Schedule returns the cron schedule (3 AM daily)
func (j *StatementRefreshJob) Schedule() string {
	return "0 0 3 * * *"
}

// Run sweeps every tracked ticker through the freshness-aware read path
func (j *StatementRefreshJob) Run(ctx context.Context) error {
	tickers, err := j.companies.ListTickers(ctx)
	if err != nil {
		return err
	}

	var refreshed, failed int
	for _, ticker := range tickers {
		if _, _, err := j.statements.Get(ctx, ticker); err != nil {
			failed++
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Statement refresh failed")
			continue
		}
		refreshed++
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers":   len(tickers),
		"refreshed": refreshed,
		"failed":    failed,
	}).Info("Statement refresh sweep completed")
	return nil
}
