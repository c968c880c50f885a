package contracts

import "time"

// PricePoint is one cached daily price bar for a ticker.
// Identity is (Ticker, Date); the price cache upserts on it.
type PricePoint struct {
	Ticker    string    `json:"ticker"`
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	AdjClose  float64   `json:"adjusted_close"`
	Volume    int64     `json:"volume"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}
