package prices

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

// Service is the price cache manager. It owns the (ticker, date) indexed
// price series: lookups resolve against fresh cached points first, fall
// back to the nearest prior trading day within a configured window, and
// only then fetch from the vendor. Batch lookups issue exactly one range
// fetch spanning the missing dates.
type Service struct {
	prices    contracts.PriceRepository
	source    contracts.PriceSource
	sourceTag string
	cfg       config.ValuationConfig
	logger    *logger.Logger

	now func() time.Time
}

// NewService creates a price cache manager
func NewService(
	prices contracts.PriceRepository,
	source contracts.PriceSource,
	sourceTag string,
	cfg config.ValuationConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		prices:    prices,
		source:    source,
		sourceTag: sourceTag,
		cfg:       cfg,
		logger:    log.WithComponent("prices"),
		now:       time.Now,
	}
}

// PriceOnDate returns the close price for a ticker on a date, falling back
// to the nearest prior trading day within the lookup window. Fails with
// contracts.ErrNotFound when neither cache nor vendor has a usable point.
func (s *Service) PriceOnDate(ctx context.Context, ticker string, date time.Time) (float64, error) {
	ticker = strings.ToUpper(ticker)
	date = day(date)

	// CheckCache: exact, then nearest prior within the window
	if price, ok, err := s.lookupCached(ctx, ticker, date); err != nil {
		return 0, err
	} else if ok {
		return price, nil
	}

	// Fetch a small range around the target, store, retry the lookup
	from := date.AddDate(0, 0, -s.cfg.PriceLookupWindowDays)
	to := date.AddDate(0, 0, 1)
	bars, err := s.source.HistoricalPrices(ctx, ticker, from, to)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker": ticker,
			"date":   date.Format("2006-01-02"),
		}).Warn("Vendor price fetch failed")
	}
	if len(bars) > 0 {
		if err := s.store(ctx, ticker, bars); err != nil {
			return 0, err
		}
		if price, ok, err := s.lookupCached(ctx, ticker, date); err != nil {
			return 0, err
		} else if ok {
			return price, nil
		}
	}

	return 0, fmt.Errorf("no price for %s on %s: %w", ticker, date.Format("2006-01-02"), contracts.ErrNotFound)
}

// PricesForDates resolves close prices for many dates in one pass: one
// cache scan, one vendor range fetch spanning the missing dates, then the
// single-date path for any stragglers. Dates that resolve nowhere are
// omitted from the result rather than failing the batch.
func (s *Service) PricesForDates(ctx context.Context, ticker string, dates []time.Time) (map[time.Time]float64, error) {
	ticker = strings.ToUpper(ticker)
	result := make(map[time.Time]float64, len(dates))
	if len(dates) == 0 {
		return result, nil
	}

	wanted := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		wanted = append(wanted, day(d))
	}

	minDate, maxDate := wanted[0], wanted[0]
	for _, d := range wanted[1:] {
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	// Partition cached-fresh vs missing with one range scan
	cached, err := s.prices.GetByTickerAndDateRange(ctx, ticker, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("read price cache for %s: %w", ticker, err)
	}
	now := s.now()
	fresh := make(map[time.Time]float64, len(cached))
	for _, p := range cached {
		if freshness.PriceFresh(p.FetchedAt, p.Date, now) {
			fresh[day(p.Date)] = p.Close
		}
	}

	var missing []time.Time
	for _, d := range wanted {
		if price, ok := fresh[d]; ok {
			result[d] = price
		} else {
			missing = append(missing, d)
		}
	}

	if len(missing) == 0 {
		s.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"count":  len(result),
		}).Debug("All prices served from cache")
		return result, nil
	}

	// One vendor fetch spanning the missing dates, expanded by the buffer
	fetchFrom, fetchTo := missing[0], missing[0]
	for _, d := range missing[1:] {
		if d.Before(fetchFrom) {
			fetchFrom = d
		}
		if d.After(fetchTo) {
			fetchTo = d
		}
	}
	fetchFrom = fetchFrom.AddDate(0, 0, -s.cfg.PriceFetchBufferDays)
	fetchTo = fetchTo.AddDate(0, 0, 1)

	bars, err := s.source.HistoricalPrices(ctx, ticker, fetchFrom, fetchTo)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Vendor range fetch failed")
	}
	if len(bars) > 0 {
		if err := s.store(ctx, ticker, bars); err != nil {
			return nil, err
		}
		barByDate := make(map[time.Time]float64, len(bars))
		for _, b := range bars {
			barByDate[day(b.Date)] = b.Close
		}
		for _, d := range missing {
			if price, ok := barByDate[d]; ok {
				result[d] = price
			}
		}
	}

	// Stragglers go through the single-date path for nearest-prior fallback
	for _, d := range wanted {
		if _, ok := result[d]; ok {
			continue
		}
		price, err := s.PriceOnDate(ctx, ticker, d)
		if err != nil {
			continue
		}
		result[d] = price
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"requested": len(wanted),
		"resolved":  len(result),
	}).Debug("Batch price lookup complete")
	return result, nil
}

// CurrentPrice prefers a live vendor quote and falls back to the most
// recent cached point. Fails only when both are empty.
func (s *Service) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	ticker = strings.ToUpper(ticker)

	quote, err := s.source.CurrentQuote(ctx, ticker)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Live quote failed")
	} else if quote > 0 {
		return quote, nil
	}

	latest, err := s.prices.GetLatestByTicker(ctx, ticker)
	if err != nil {
		return 0, fmt.Errorf("read latest cached price for %s: %w", ticker, err)
	}
	if latest != nil {
		s.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"date":   latest.Date.Format("2006-01-02"),
		}).Info("Using latest cached price as current")
		return latest.Close, nil
	}

	return 0, fmt.Errorf("no current price for %s: %w", ticker, contracts.ErrNotFound)
}

// lookupCached resolves a date from the cache only: exact fresh match
// first, then the nearest fresh point at or before the date within the
// lookup window.
func (s *Service) lookupCached(ctx context.Context, ticker string, date time.Time) (float64, bool, error) {
	now := s.now()

	exact, err := s.prices.GetByTickerAndDate(ctx, ticker, date)
	if err != nil {
		return 0, false, fmt.Errorf("read price cache for %s: %w", ticker, err)
	}
	if exact != nil && freshness.PriceFresh(exact.FetchedAt, exact.Date, now) {
		return exact.Close, true, nil
	}

	from := date.AddDate(0, 0, -s.cfg.PriceLookupWindowDays)
	nearby, err := s.prices.GetByTickerAndDateRange(ctx, ticker, from, date)
	if err != nil {
		return 0, false, fmt.Errorf("read price cache for %s: %w", ticker, err)
	}

	// Range results are date-ascending; walk backwards for nearest prior
	for i := len(nearby) - 1; i >= 0; i-- {
		p := nearby[i]
		if freshness.PriceFresh(p.FetchedAt, p.Date, now) {
			if !p.Date.Equal(date) {
				s.logger.WithFields(map[string]interface{}{
					"ticker": ticker,
					"target": date.Format("2006-01-02"),
					"used":   p.Date.Format("2006-01-02"),
				}).Debug("Using nearby cached price")
			}
			return p.Close, true, nil
		}
	}

	return 0, false, nil
}

// store persists vendor bars as cache points stamped with fetch time
func (s *Service) store(ctx context.Context, ticker string, bars []contracts.PriceBar) error {
	now := s.now()
	points := make([]contracts.PricePoint, len(bars))
	for i, b := range bars {
		points[i] = contracts.PricePoint{
			Ticker:    ticker,
			Date:      day(b.Date),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			AdjClose:  b.AdjClose,
			Volume:    b.Volume,
			Source:    s.sourceTag,
			FetchedAt: now,
		}
	}
	if err := s.prices.UpsertBatch(ctx, points); err != nil {
		return fmt.Errorf("store prices for %s: %w", ticker, err)
	}
	return nil
}

// day truncates to midnight UTC; prices are keyed by calendar date
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
