package statements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/internal/freshness"
	"github.com/wonny/fairval/pkg/config"
	"github.com/wonny/fairval/pkg/logger"
)

// Service is the statement cache manager. It owns quarterly fundamentals
// per ticker: serves cached records while they pass the fundamentals
// freshness rule, refetches and merges otherwise, and degrades to the
// stale cache when the vendor comes back empty.
//
// Per-request flow: CheckCache -> {Fresh | Stale} -> Fetch -> {Success | Empty}
// -> {Serve | ServeStale | Fail}.
type Service struct {
	statements  contracts.StatementRepository
	companies   contracts.CompanyRepository
	source      contracts.FundamentalsSource
	transformer Transformer
	cfg         config.ValuationConfig
	logger      *logger.Logger

	now func() time.Time
}

// NewService creates a statement cache manager
func NewService(
	statements contracts.StatementRepository,
	companies contracts.CompanyRepository,
	source contracts.FundamentalsSource,
	transformer Transformer,
	cfg config.ValuationConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		statements:  statements,
		companies:   companies,
		source:      source,
		transformer: transformer,
		cfg:         cfg,
		logger:      log.WithComponent("statements"),
		now:         time.Now,
	}
}

// Get returns quarterly fundamentals for a ticker, newest first. The
// degraded flag is set when a stale cache was served because the vendor
// returned nothing. Fails with contracts.ErrNotFound when no data exists
// at all.
func (s *Service) Get(ctx context.Context, ticker string) ([]contracts.FiscalQuarterRecord, bool, error) {
	ticker = strings.ToUpper(ticker)

	if err := s.ensureCompany(ctx, ticker); err != nil {
		return nil, false, fmt.Errorf("ensure company %s: %w", ticker, err)
	}

	// CheckCache
	cached, err := s.statements.GetByTicker(ctx, ticker, s.cfg.NumQuarters)
	if err != nil {
		return nil, false, fmt.Errorf("read statement cache for %s: %w", ticker, err)
	}

	if len(cached) > 0 && freshness.FundamentalsFresh(latestFetch(cached), s.now(), s.cfg.FundamentalsMaxAgeDays) {
		s.logger.WithField("ticker", ticker).Debug("Serving cached fundamentals")
		return cached, false, nil
	}

	// Fetch
	fresh := s.fetch(ctx, ticker)

	if len(fresh) > 0 {
		// Serve: merge per fiscal quarter and re-read the merged set
		if err := s.statements.UpsertBatch(ctx, fresh); err != nil {
			return nil, false, fmt.Errorf("store fundamentals for %s: %w", ticker, err)
		}
		s.touchCompany(ctx, ticker)

		merged, err := s.statements.GetByTicker(ctx, ticker, s.cfg.NumQuarters)
		if err != nil {
			return nil, false, fmt.Errorf("re-read statement cache for %s: %w", ticker, err)
		}
		s.logger.WithFields(map[string]interface{}{
			"ticker":   ticker,
			"quarters": len(merged),
		}).Info("Refreshed fundamentals")
		return merged, false, nil
	}

	// ServeStale: availability over strict freshness
	if len(cached) > 0 {
		s.logger.WithField("ticker", ticker).Warn("Vendor fetch empty, serving stale fundamentals")
		return cached, true, nil
	}

	// Fail
	return nil, false, fmt.Errorf("no financial data for %s: %w", ticker, contracts.ErrNotFound)
}

// ForceRefresh bypasses the freshness check, deletes the cached records
// for the ticker, and rewrites them from fresh vendor data. Fails when the
// vendor fetch is empty.
func (s *Service) ForceRefresh(ctx context.Context, ticker string) ([]contracts.FiscalQuarterRecord, error) {
	ticker = strings.ToUpper(ticker)

	if err := s.ensureCompany(ctx, ticker); err != nil {
		return nil, fmt.Errorf("ensure company %s: %w", ticker, err)
	}

	fresh := s.fetch(ctx, ticker)
	if len(fresh) == 0 {
		return nil, fmt.Errorf("unable to refresh data for %s: %w", ticker, contracts.ErrNotFound)
	}

	if err := s.statements.DeleteByTicker(ctx, ticker); err != nil {
		return nil, fmt.Errorf("clear statement cache for %s: %w", ticker, err)
	}
	if err := s.statements.UpsertBatch(ctx, fresh); err != nil {
		return nil, fmt.Errorf("store fundamentals for %s: %w", ticker, err)
	}
	s.touchCompany(ctx, ticker)

	merged, err := s.statements.GetByTicker(ctx, ticker, s.cfg.NumQuarters)
	if err != nil {
		return nil, fmt.Errorf("re-read statement cache for %s: %w", ticker, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"quarters": len(merged),
	}).Info("Force-refreshed fundamentals")
	return merged, nil
}

// Company returns the profile row for a ticker, if one exists
func (s *Service) Company(ctx context.Context, ticker string) (*contracts.Company, error) {
	return s.companies.GetByTicker(ctx, strings.ToUpper(ticker))
}

// fetch pulls all four statements from the vendor and merges them.
// Vendor failures come back as empty slices; an empty income statement
// means nothing usable was fetched.
func (s *Service) fetch(ctx context.Context, ticker string) []contracts.FiscalQuarterRecord {
	limit := s.cfg.NumQuarters

	earnings, err := s.source.Earnings(ctx, ticker, limit)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Earnings fetch failed")
	}
	income, err := s.source.IncomeStatements(ctx, ticker, limit)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Income statement fetch failed")
	}
	cashFlow, err := s.source.CashFlowStatements(ctx, ticker, limit)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Cash flow fetch failed")
	}
	balance, err := s.source.BalanceSheets(ctx, ticker, limit)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Balance sheet fetch failed")
	}

	if len(income) == 0 {
		s.logger.WithField("ticker", ticker).Warn("No income statement data returned")
		return nil
	}

	records := s.transformer.Transform(ticker, Bundle{
		Earnings: earnings,
		Income:   income,
		CashFlow: cashFlow,
		Balance:  balance,
	}, s.now())

	for _, r := range records {
		if r.Degraded {
			s.logger.WithFields(map[string]interface{}{
				"ticker":  ticker,
				"quarter": r.FiscalQuarter,
			}).Warn("Partial statement merge")
		}
	}

	return records
}

// ensureCompany creates the profile row on first sight of a ticker
func (s *Service) ensureCompany(ctx context.Context, ticker string) error {
	existing, err := s.companies.GetByTicker(ctx, ticker)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	company := &contracts.Company{
		Ticker:      ticker,
		Name:        ticker,
		LastUpdated: s.now(),
	}

	// Profile is nice-to-have; the ticker stands in for a missing name
	if profile, err := s.source.CompanyProfile(ctx, ticker); err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Company profile fetch failed")
	} else if profile != nil {
		if profile.Name != "" {
			company.Name = profile.Name
		}
		company.Sector = profile.Sector
		company.Industry = profile.Industry
	}

	return s.companies.Upsert(ctx, company)
}

// touchCompany bumps the profile's LastUpdated after a successful refresh
func (s *Service) touchCompany(ctx context.Context, ticker string) {
	company, err := s.companies.GetByTicker(ctx, ticker)
	if err != nil || company == nil {
		return
	}
	company.LastUpdated = s.now()
	if err := s.companies.Upsert(ctx, company); err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Company timestamp update failed")
	}
}

// latestFetch returns the newest fetch timestamp across cached records
func latestFetch(records []contracts.FiscalQuarterRecord) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.FetchedAt.After(latest) {
			latest = r.FetchedAt
		}
	}
	return latest
}
