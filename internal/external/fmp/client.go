// Package fmp implements the Financial Modeling Prep vendor client for
// fundamentals. It is the alternative statement source for deployments
// with an FMP key.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/fairval/pkg/config"
	"github.com/wonny/fairval/pkg/httputil"
	"github.com/wonny/fairval/pkg/logger"
)

// Client handles communication with the Financial Modeling Prep API
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new FMP client
func NewClient(cfg config.FMPConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httputil.New(log),
		logger:     log.WithComponent("fmp"),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// fetchJSON calls one endpoint path and decodes the response into dest
func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

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

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// parseDate converts a YYYY-MM-DD field, returning the zero time for
// missing or malformed values
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
