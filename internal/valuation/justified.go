package valuation

import (
	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/config"
)

// Weight map keys
const (
	weightHistorical   = "historical"
	weightPeer         = "peer"
	weightFundamentals = "fundamentals"
)

// SynthesizeJustifiedPe folds whichever P/E estimates are present and
// positive into a weighted consensus band. Nominal weights are
// renormalized to sum to 1 over the present inputs, so historical and
// fundamentals pick up the peer weight when no peer sample exists.
//
// historicalAvg and peerAvg are nil when that estimate is unavailable.
func SynthesizeJustifiedPe(historicalAvg, peerAvg *float64, fundamentalsPe float64, cfg config.ValuationConfig) contracts.JustifiedPeBand {
	var values []float64
	var weights []float64
	var names []string

	if historicalAvg != nil && *historicalAvg > 0 {
		values = append(values, *historicalAvg)
		weights = append(weights, cfg.WeightHistorical)
		names = append(names, weightHistorical)
	}
	if peerAvg != nil && *peerAvg > 0 {
		values = append(values, *peerAvg)
		weights = append(weights, cfg.WeightPeer)
		names = append(names, weightPeer)
	}
	if fundamentalsPe > 0 {
		values = append(values, fundamentalsPe)
		weights = append(weights, cfg.WeightFundamentals)
		names = append(names, weightFundamentals)
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total > 0 {
		for i := range weights {
			weights[i] /= total
		}
	}

	midpoint := 0.0
	for i, v := range values {
		midpoint += v * weights[i]
	}

	// Half-width: at least 10% of the midpoint, widened to the sample
	// spread when multiple estimates disagree
	halfWidth := midpoint * 0.1
	if len(values) > 1 {
		if sd := stdDev(values); sd > halfWidth {
			halfWidth = sd
		}
	}

	low := midpoint - halfWidth
	if low < cfg.MinPE {
		low = cfg.MinPE
	}

	weighting := make(map[string]float64, len(names))
	for i, name := range names {
		weighting[name] = weights[i]
	}

	return contracts.JustifiedPeBand{
		Low:      low,
		High:     midpoint + halfWidth,
		Midpoint: midpoint,
		Weights:  weighting,
	}
}
