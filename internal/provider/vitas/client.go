// Package vitas is a thin client for the Vitas backend market-data API.
// One request per call, no retries; pacing is client side only.
package vitas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vitas-chart/internal/market"
	"vitas-chart/internal/model"
)

const (
	DefaultBaseURL = "http://localhost:3333/api"

	defaultTimeout = 30 * time.Second

	// max bytes of an error body echoed into the returned error
	maxErrorBody = 512

	dateLayout = "2006-01-02"
)

// ErrUnsuccessful is returned when the API answers 200 with success=false.
var ErrUnsuccessful = errors.New("vitas: unsuccessful response")

// LogFunc emits a log line. When set, used instead of slog.Info (fan-in logger).
type LogFunc func(msg string)

// Config for NewClient.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int // <= 0 disables pacing
}

// Client fetches raw bars from the Vitas REST API.
type Client struct {
	baseURL *url.URL
	client  *http.Client
	limiter *rate.Limiter
	LogFunc LogFunc
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", base)
	}
	c := &Client{
		baseURL: u,
		client:  newHTTPClient(cfg.Timeout),
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return c, nil
}

func (c *Client) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c.LogFunc != nil {
		c.LogFunc(msg)
	} else {
		slog.Debug(msg)
	}
}

// Close closes idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// HistoricalRequest mirrors GET /market-data/query/historical/{ticker}.
type HistoricalRequest struct {
	Ticker    string
	Timeframe string
	Limit     int
	From      time.Time
	To        time.Time
}

// buildHistoricalRequest builds the GET request (timeframe, limit, fromDate, toDate).
// Dates are trading-region calendar dates.
func (c *Client) buildHistoricalRequest(ctx context.Context, r HistoricalRequest) (*http.Request, error) {
	ticker := strings.ToUpper(strings.TrimSpace(r.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	u := c.baseURL.JoinPath("market-data", "query", "historical", ticker)

	q := u.Query()
	if r.Timeframe != "" {
		q.Set("timeframe", r.Timeframe)
	}
	if r.Limit > 0 {
		q.Set("limit", strconv.Itoa(r.Limit))
	}
	if !r.From.IsZero() {
		q.Set("fromDate", r.From.In(market.Location).Format(dateLayout))
	}
	if !r.To.IsZero() {
		q.Set("toDate", r.To.In(market.Location).Format(dateLayout))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Historical fetches raw historical bars. Records are returned as received.
func (c *Client) Historical(ctx context.Context, r HistoricalRequest) ([]model.RawBar, error) {
	req, err := c.buildHistoricalRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	c.logf("[%s] req %s", r.Ticker, req.URL.Path)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logf("[%s] res:error status=%d ms=%d", r.Ticker, resp.StatusCode, time.Since(start).Milliseconds())
		return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result HistoricalResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, result.Message)
	}
	c.logf("[%s] res status=%d rows=%d ms=%d", r.Ticker, resp.StatusCode, len(result.Data), time.Since(start).Milliseconds())
	if result.Data == nil {
		return []model.RawBar{}, nil
	}
	return result.Data, nil
}
