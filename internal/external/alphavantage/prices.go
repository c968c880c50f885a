package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/wonny/fairval/internal/contracts"
)

// compactWindowDays bounds the range the 100-bar compact payload can
// safely cover
const compactWindowDays = 100

// HistoricalPrices fetches daily bars within [from, to], date ascending.
// The compact payload is used when the range fits inside its 100 most
// recent bars, otherwise the full history is requested.
func (c *Client) HistoricalPrices(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error) {
	outputSize := "compact"
	if time.Since(from) > compactWindowDays*24*time.Hour {
		outputSize = "full"
	}

	extra := url.Values{}
	extra.Set("outputsize", outputSize)

	var raw struct {
		TimeSeries map[string]struct {
			Open     string `json:"1. open"`
			High     string `json:"2. high"`
			Low      string `json:"3. low"`
			Close    string `json:"4. close"`
			AdjClose string `json:"5. adjusted close"`
			Volume   string `json:"6. volume"`
		} `json:"Time Series (Daily)"`
	}
	if err := c.fetchJSON(ctx, "TIME_SERIES_DAILY_ADJUSTED", ticker, extra, &raw); err != nil {
		return nil, err
	}
	if len(raw.TimeSeries) == 0 {
		return nil, fmt.Errorf("no price data for %s", ticker)
	}

	var bars []contracts.PriceBar
	for dateStr, bar := range raw.TimeSeries {
		date := parseDate(dateStr)
		if date.IsZero() || date.Before(from) || date.After(to) {
			continue
		}
		bars = append(bars, contracts.PriceBar{
			Date:     date,
			Open:     parseFloat(bar.Open),
			High:     parseFloat(bar.High),
			Low:      parseFloat(bar.Low),
			Close:    parseFloat(bar.Close),
			AdjClose: parseFloat(bar.AdjClose),
			Volume:   parseInt(bar.Volume),
		})
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Debug("Fetched historical prices")
	return bars, nil
}

// CurrentQuote fetches the latest traded price. Zero with a nil error
// means the vendor has no live quote.
func (c *Client) CurrentQuote(ctx context.Context, ticker string) (float64, error) {
	var raw struct {
		GlobalQuote struct {
			Price string `json:"05. price"`
		} `json:"Global Quote"`
	}
	if err := c.fetchJSON(ctx, "GLOBAL_QUOTE", ticker, nil, &raw); err != nil {
		return 0, err
	}
	return parseFloat(raw.GlobalQuote.Price), nil
}
