// Package alphavantage implements the Alpha Vantage vendor client. It
// covers both fundamentals and prices, so a deployment can run on a
// single free API key.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/fairval/pkg/config"
	"github.com/wonny/fairval/pkg/httputil"
	"github.com/wonny/fairval/pkg/logger"
)

// Client handles communication with the Alpha Vantage API. All requests
// share one rate limiter sized for the free tier.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new Alpha Vantage client
func NewClient(cfg config.AlphaVantageConfig, log *logger.Logger) *Client {
	httpClient := httputil.New(log).WithRateLimit(cfg.RateInterval)
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("alphavantage"),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// fetchJSON calls one API function and decodes the response into dest.
// Alpha Vantage reports errors and throttling as 200 responses with
// special keys, so those are checked before decoding.
func (c *Client) fetchJSON(ctx context.Context, function, symbol string, extra url.Values, dest interface{}) error {
	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := checkAPIError(body); err != nil {
		return fmt.Errorf("%s %s: %w", function, symbol, err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", function, err)
	}
	return nil
}

// checkAPIError detects the in-band error envelopes Alpha Vantage uses
func checkAPIError(body []byte) error {
	var envelope struct {
		ErrorMessage string `json:"Error Message"`
		Note         string `json:"Note"`
		Information  string `json:"Information"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	switch {
	case envelope.ErrorMessage != "":
		return fmt.Errorf("API error: %s", envelope.ErrorMessage)
	case envelope.Note != "":
		return fmt.Errorf("API throttled: %s", envelope.Note)
	case envelope.Information != "":
		return fmt.Errorf("API rejected request: %s", envelope.Information)
	}
	return nil
}

// parseFloat converts a numeric field. "None" and empty strings mean the
// vendor has no figure; both map to zero.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" || s == "-" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseInt converts an integer field with the same missing-value rules
// as parseFloat
func parseInt(s string) int64 {
	return int64(parseFloat(s))
}

// parseDate converts a YYYY-MM-DD field, returning the zero time for
// missing or malformed values
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
