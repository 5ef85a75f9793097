package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitas-chart/internal/chart"
	"vitas-chart/internal/market"
	"vitas-chart/internal/model"
	"vitas-chart/internal/window"
)

type stubBuilder struct {
	ticker string
	view   chart.View
	err    error
}

func (s *stubBuilder) Build(_ context.Context, ticker string, view chart.View) (*chart.Series, error) {
	s.ticker, s.view = ticker, view
	if s.err != nil {
		return nil, s.err
	}
	return &chart.Series{
		Ticker: ticker,
		View:   view,
		Window: window.Weekly{Source: window.SourceCurrentWeek, AllowedDayKeys: []int{20240115}},
		Bars:   []model.AggBar{{Bar: model.Bar{Timestamp: 1705284000000, Close: 90}, Count: 60, Complete: true}},
	}, nil
}

func newTestServer(b SeriesBuilder) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(b, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealth(t *testing.T) {
	w, body := get(t, newTestServer(&stubBuilder{}), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestChartOK(t *testing.T) {
	b := &stubBuilder{}
	w, body := get(t, newTestServer(b), "/api/chart/vcb?view=1d")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "VCB", b.ticker)
	assert.Equal(t, chart.ViewDaily, b.view)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "1d", data["view"])
	bars := data["bars"].([]any)
	require.Len(t, bars, 1)
	bar := bars[0].(map[string]any)
	assert.Equal(t, float64(1705284000000), bar["t"])
	assert.Equal(t, float64(60), bar["n"])
	assert.Equal(t, "current-week", data["window"].(map[string]any)["source"])
}

func TestChartDefaultsToHourly(t *testing.T) {
	b := &stubBuilder{}
	w, _ := get(t, newTestServer(b), "/api/chart/FPT")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, chart.ViewHourly, b.view)
}

func TestChartBadView(t *testing.T) {
	b := &stubBuilder{}
	w, body := get(t, newTestServer(b), "/api/chart/VCB?view=5m")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, b.ticker)
}

func TestChartUpstreamFailure(t *testing.T) {
	w, body := get(t, newTestServer(&stubBuilder{err: errors.New("API status 500: down")}), "/api/chart/VCB")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, body["message"], "API status 500")
}

func TestMarketStatus(t *testing.T) {
	s := newTestServer(&stubBuilder{})
	s.now = func() time.Time { return time.Date(2024, 1, 20, 10, 0, 0, 0, market.Location) } // Saturday
	w, body := get(t, s, "/api/market/status")
	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["open"])
	assert.Equal(t, true, data["afterHours"])
	assert.Equal(t, float64(47*3600), data["untilNextOpenS"])
}
