package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairval/pkg/config"
	"github.com/wonny/fairval/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.AlphaVantageConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
	}, logger.NewNop())
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1.25", 1.25},
		{"-3.5", -3.5},
		{" 42 ", 42},
		{"None", 0},
		{"-", 0},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFloat(tt.input), "input %q", tt.input)
	}
}

func TestParseDate(t *testing.T) {
	d := parseDate("2024-09-30")
	assert.Equal(t, time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), d)

	assert.True(t, parseDate("None").IsZero())
	assert.True(t, parseDate("").IsZero())
	assert.True(t, parseDate("09/30/2024").IsZero())
}

func TestCheckAPIError(t *testing.T) {
	assert.NoError(t, checkAPIError([]byte(`{"quarterlyEarnings": []}`)))
	assert.Error(t, checkAPIError([]byte(`{"Error Message": "Invalid API call"}`)))
	assert.Error(t, checkAPIError([]byte(`{"Note": "API call frequency exceeded"}`)))
	assert.Error(t, checkAPIError([]byte(`{"Information": "premium endpoint"}`)))
}

func TestEarnings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EARNINGS", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Write([]byte(`{
			"symbol": "AAPL",
			"quarterlyEarnings": [
				{"fiscalDateEnding": "2024-09-30", "reportedDate": "2024-11-01", "reportedEPS": "1.64"},
				{"fiscalDateEnding": "2024-06-30", "reportedDate": "2024-08-01", "reportedEPS": "1.40"},
				{"fiscalDateEnding": "2024-03-31", "reportedDate": "2024-05-02", "reportedEPS": "None"}
			]
		}`))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).Earnings(context.Background(), "AAPL", 2)
	require.NoError(t, err)

	// Limit applies after parsing, newest first
	require.Len(t, records, 2)
	assert.Equal(t, 1.64, records[0].ReportedEPS)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), records[0].ReportedDate)
	assert.Equal(t, 1.40, records[1].ReportedEPS)
}

func TestEarnings_Throttled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Earnings(context.Background(), "AAPL", 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestCompanyProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		w.Write([]byte(`{"Name": "Apple Inc", "Sector": "TECHNOLOGY", "Industry": "ELECTRONIC COMPUTERS"}`))
	}))
	defer server.Close()

	profile, err := newTestClient(server.URL).CompanyProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", profile.Name)
	assert.Equal(t, "TECHNOLOGY", profile.Sector)
}

func TestCompanyProfile_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CompanyProfile(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestHistoricalPrices_FiltersAndSorts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", r.URL.Query().Get("function"))
		w.Write([]byte(`{
			"Time Series (Daily)": {
				"2024-06-14": {"1. open": "180", "2. high": "183", "3. low": "179", "4. close": "182.5", "5. adjusted close": "182.5", "6. volume": "1000"},
				"2024-06-13": {"1. open": "178", "2. high": "181", "3. low": "177", "4. close": "180.0", "5. adjusted close": "180.0", "6. volume": "2000"},
				"2024-05-01": {"1. open": "170", "2. high": "171", "3. low": "169", "4. close": "170.5", "5. adjusted close": "170.5", "6. volume": "3000"}
			}
		}`))
	}))
	defer server.Close()

	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	bars, err := newTestClient(server.URL).HistoricalPrices(context.Background(), "AAPL", from, to)
	require.NoError(t, err)

	// The May bar is outside the range; the rest come back date ascending
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 180.0, bars[0].Close)
	assert.Equal(t, int64(1000), bars[1].Volume)
}

func TestCurrentQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "191.29"}}`))
	}))
	defer server.Close()

	quote, err := newTestClient(server.URL).CurrentQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 191.29, quote)
}

func TestCurrentQuote_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	}))
	defer server.Close()

	quote, err := newTestClient(server.URL).CurrentQuote(context.Background(), "DELISTED")
	require.NoError(t, err)
	assert.Zero(t, quote)
}
