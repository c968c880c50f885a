package valuation

import (
	"context"
	"sort"
	"strings"

	"github.com/wonny/fairval/internal/contracts"
)

// peerComparison computes each peer's current trailing P/E independently.
// A peer lacking 4 quarters, positive TTM EPS, or a resolvable price is
// skipped with a log line; one bad peer never fails the valuation. Nil is
// returned when no peer yields a valid sample.
func (s *Service) peerComparison(ctx context.Context, peers []string) *contracts.PeerComparison {
	var results []contracts.PeerPeRatio

	for _, peer := range peers {
		peer = strings.ToUpper(strings.TrimSpace(peer))
		if peer == "" {
			continue
		}
		plog := s.logger.WithField("peer", peer)

		records, _, err := s.statements.Get(ctx, peer)
		if err != nil {
			plog.WithError(err).Warn("Peer fundamentals unavailable, skipping")
			continue
		}
		if len(records) < s.cfg.TTMQuarters {
			plog.Warn("Peer has too few quarters, skipping")
			continue
		}

		ttmEps := trailingEps(records, s.cfg.TTMQuarters)
		if ttmEps <= 0 {
			plog.Warn("Peer TTM EPS not positive, skipping")
			continue
		}

		price, err := s.prices.CurrentPrice(ctx, peer)
		if err != nil {
			plog.WithError(err).Warn("Peer price unavailable, skipping")
			continue
		}

		results = append(results, contracts.PeerPeRatio{
			Ticker: peer,
			Pe:     price / ttmEps,
			TTMEps: ttmEps,
			Price:  price,
		})
	}

	if len(results) == 0 {
		s.logger.Warn("No valid peer P/E samples")
		return nil
	}

	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.Pe
	}
	lo, hi := minMax(values)

	return &contracts.PeerComparison{
		Peers:     results,
		AveragePe: mean(values),
		MedianPe:  median(values),
		Range:     [2]float64{lo, hi},
	}
}

// trailingEps sums EPS over the newest ttmQuarters quarters
func trailingEps(records []contracts.FiscalQuarterRecord, ttmQuarters int) float64 {
	sorted := make([]contracts.FiscalQuarterRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FiscalDate.After(sorted[j].FiscalDate)
	})
	if len(sorted) > ttmQuarters {
		sorted = sorted[:ttmQuarters]
	}

	sum := 0.0
	for _, r := range sorted {
		sum += r.EPS
	}
	return sum
}
