package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFundamentalsFresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		fetchedAt time.Time
		maxAge    int
		want      bool
	}{
		{
			name:      "fetched yesterday",
			fetchedAt: now.AddDate(0, 0, -1),
			maxAge:    30,
			want:      true,
		},
		{
			name:      "fetched 29 days ago",
			fetchedAt: now.AddDate(0, 0, -29),
			maxAge:    30,
			want:      true,
		},
		{
			name:      "fetched 30 days ago",
			fetchedAt: now.AddDate(0, 0, -30),
			maxAge:    30,
			want:      false,
		},
		{
			name:      "fetched 45 days ago",
			fetchedAt: now.AddDate(0, 0, -45),
			maxAge:    30,
			want:      false,
		},
		{
			name:      "never fetched",
			fetchedAt: time.Time{},
			maxAge:    30,
			want:      false,
		},
		{
			name:      "tight custom window",
			fetchedAt: now.AddDate(0, 0, -5),
			maxAge:    3,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FundamentalsFresh(tt.fetchedAt, now, tt.maxAge)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceFresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		fetchedAt time.Time
		tradeDate time.Time
		want      bool
	}{
		{
			// Settled prices never expire regardless of fetch age
			name:      "40 day old price fetched long ago",
			fetchedAt: now.AddDate(-1, 0, 0),
			tradeDate: now.AddDate(0, 0, -40),
			want:      true,
		},
		{
			name:      "2 day old price fetched 25 hours ago",
			fetchedAt: now.Add(-25 * time.Hour),
			tradeDate: now.AddDate(0, 0, -2),
			want:      false,
		},
		{
			name:      "2 day old price fetched 1 hour ago",
			fetchedAt: now.Add(-1 * time.Hour),
			tradeDate: now.AddDate(0, 0, -2),
			want:      true,
		},
		{
			name:      "today's price fetched 23 hours ago",
			fetchedAt: now.Add(-23 * time.Hour),
			tradeDate: now,
			want:      true,
		},
		{
			name:      "never fetched settled price",
			fetchedAt: time.Time{},
			tradeDate: now.AddDate(0, 0, -90),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceFresh(tt.fetchedAt, tt.tradeDate, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
