package valuation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/config"
	"github.com/wonny/fairval/pkg/logger"
	"github.com/wonny/fairval/pkg/redis"
)

// StatementProvider is what the orchestrator needs from the statement
// cache manager
type StatementProvider interface {
	Get(ctx context.Context, ticker string) ([]contracts.FiscalQuarterRecord, bool, error)
	Company(ctx context.Context, ticker string) (*contracts.Company, error)
}

// PriceProvider is what the orchestrator needs from the price cache
// manager
type PriceProvider interface {
	PriceOnDate(ctx context.Context, ticker string, date time.Time) (float64, error)
	PricesForDates(ctx context.Context, ticker string, dates []time.Time) (map[time.Time]float64, error)
	CurrentPrice(ctx context.Context, ticker string) (float64, error)
}

// Service orchestrates the end-to-end valuation: fundamentals, both
// forward EPS estimators, the three P/E derivations, the justified band,
// and the fair-value verdict. One synchronous run per request; the
// finished report is persisted with an expiry and replaces any prior
// report for the same (ticker, peer set).
type Service struct {
	statements StatementProvider
	prices     PriceProvider
	reports    contracts.ReportRepository
	hotCache   *redis.Cache
	cfg        config.ValuationConfig
	logger     *logger.Logger

	now func() time.Time
}

// NewService creates a valuation orchestrator. hotCache may be nil.
func NewService(
	statements StatementProvider,
	prices PriceProvider,
	reports contracts.ReportRepository,
	hotCache *redis.Cache,
	cfg config.ValuationConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		statements: statements,
		prices:     prices,
		reports:    reports,
		hotCache:   hotCache,
		cfg:        cfg,
		logger:     log.WithComponent("valuation"),
		now:        time.Now,
	}
}

// PerformValuation runs the full pipeline for a ticker and optional peer
// set. Fails with contracts.ErrInsufficientData below the configured
// quarter minimum and contracts.ErrNotFound when no current price
// resolves; everything else degrades to omitted report sections.
func (s *Service) PerformValuation(ctx context.Context, ticker string, peers []string) (*contracts.ValuationReport, error) {
	ticker = strings.ToUpper(ticker)
	log := s.logger.WithField("ticker", ticker)
	log.Info("Starting valuation")

	// Fundamentals snapshot; estimators never see mutations after this
	records, degraded, err := s.statements.Get(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(records) < s.cfg.MinQuartersForValuation {
		return nil, fmt.Errorf("need at least %d quarters for %s, found %d: %w",
			s.cfg.MinQuartersForValuation, ticker, len(records), contracts.ErrInsufficientData)
	}

	companyName := ticker
	if company, err := s.statements.Company(ctx, ticker); err == nil && company != nil && company.Name != "" {
		companyName = company.Name
	}

	// Both estimators run; either failing makes the valuation meaningless
	forwardGrowth, err := EstimateForwardEpsGrowth(records)
	if err != nil {
		return nil, err
	}
	forwardRegression, err := EstimateForwardEpsRegression(records)
	if err != nil {
		return nil, err
	}
	forwardEps := (forwardGrowth.ForwardEPS + forwardRegression.ForwardEPS) / 2

	currentPrice, err := s.prices.CurrentPrice(ctx, ticker)
	if err != nil {
		return nil, err
	}

	ttmEps := trailingEps(records, s.cfg.TTMQuarters)
	current := contracts.CurrentMetrics{
		CurrentPrice: currentPrice,
		TTMEps:       ttmEps,
	}
	if ttmEps > 0 {
		current.CurrentPe = currentPrice / ttmEps
	}

	// Historical P/E: resolve all report-date prices in one batch pass
	var historicalPe *contracts.HistoricalPe
	reportDates := ReportDates(records, s.cfg.TTMQuarters)
	if len(reportDates) > 0 {
		pricesByDate, err := s.prices.PricesForDates(ctx, ticker, reportDates)
		if err != nil {
			log.WithError(err).Warn("Report-date price lookup failed, skipping historical P/E")
		} else {
			historicalPe = DeriveHistoricalPe(records, pricesByDate, s.cfg.TTMQuarters)
		}
	}
	if historicalPe == nil {
		log.Warn("No historical P/E samples")
	}

	var peerComparison *contracts.PeerComparison
	if len(peers) > 0 {
		peerComparison = s.peerComparison(ctx, peers)
	}

	fundamentals := DeriveFundamentalsPe(records, s.cfg)

	var historicalAvg, peerAvg *float64
	if historicalPe != nil {
		historicalAvg = &historicalPe.Average
	}
	if peerComparison != nil {
		peerAvg = &peerComparison.AveragePe
	}
	justifiedPe := SynthesizeJustifiedPe(historicalAvg, peerAvg, fundamentals.FundamentalsPe, s.cfg)

	fairValue := CalculateFairValue(forwardEps, justifiedPe.Low, justifiedPe.High, currentPrice)

	now := s.now()
	report := &contracts.ValuationReport{
		Ticker:            ticker,
		CompanyName:       companyName,
		Peers:             normalizePeers(peers),
		Current:           current,
		ForwardGrowth:     *forwardGrowth,
		ForwardRegression: *forwardRegression,
		ForwardEPS:        forwardEps,
		HistoricalPe:      historicalPe,
		PeerComparison:    peerComparison,
		Fundamentals:      fundamentals,
		JustifiedPe:       justifiedPe,
		FairValue:         fairValue,
		QuartersUsed:      len(records),
		Degraded:          degraded,
		GeneratedAt:       now,
		ExpiresAt:         now.Add(s.cfg.ReportTTL),
	}

	if err := s.persist(ctx, report); err != nil {
		return nil, fmt.Errorf("persist valuation for %s: %w", ticker, err)
	}

	log.WithFields(map[string]interface{}{
		"fair_value_low":  fairValue.Low,
		"fair_value_high": fairValue.High,
		"assessment":      fairValue.Assessment,
	}).Info("Valuation complete")
	return report, nil
}

// CachedReport returns an unexpired persisted report for the identity
// (ticker, peer set), or nil when none exists
func (s *Service) CachedReport(ctx context.Context, ticker string, peers []string) (*contracts.ValuationReport, error) {
	ticker = strings.ToUpper(ticker)
	peerKey := contracts.PeerKey(peers)
	now := s.now()

	if s.hotCache != nil {
		var report contracts.ValuationReport
		found, err := s.hotCache.Get(ctx, reportCacheKey(ticker, peerKey), &report)
		if err != nil {
			s.logger.WithError(err).Warn("Hot cache read failed")
		} else if found && report.ExpiresAt.After(now) {
			return &report, nil
		}
	}

	report, err := s.reports.Get(ctx, ticker, peerKey)
	if err != nil {
		return nil, fmt.Errorf("read report cache for %s: %w", ticker, err)
	}
	if report == nil || !report.ExpiresAt.After(now) {
		return nil, nil
	}
	return report, nil
}

// persist replaces the prior report for the identity and mirrors it into
// the hot cache. The hot cache is best-effort; the row upsert is the
// source of truth.
func (s *Service) persist(ctx context.Context, report *contracts.ValuationReport) error {
	if err := s.reports.Upsert(ctx, report); err != nil {
		return err
	}

	if s.hotCache != nil {
		peerKey := contracts.PeerKey(report.Peers)
		if err := s.hotCache.Set(ctx, reportCacheKey(report.Ticker, peerKey), report, s.cfg.ReportTTL); err != nil {
			s.logger.WithError(err).Warn("Hot cache write failed")
		}
	}
	return nil
}

func reportCacheKey(ticker, peerKey string) string {
	if peerKey == "" {
		return "valuation:" + ticker
	}
	return "valuation:" + ticker + ":" + peerKey
}

// normalizePeers uppercases and drops empty entries, preserving order
func normalizePeers(peers []string) []string {
	var out []string
	for _, p := range peers {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
