// Package chart prepares one ticker's candles for the dashboard chart:
// fetch raw bars, normalize, aggregate, pick the weekly window and trim to it.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vitas-chart/internal/candle"
	"vitas-chart/internal/model"
	"vitas-chart/internal/provider"
	"vitas-chart/internal/window"
)

const (
	DefaultLimit        = 5000
	DefaultLookbackDays = 21
)

// Series is a chart-ready candle sequence for one ticker and view.
type Series struct {
	Ticker     string         `json:"ticker"`
	View       View           `json:"view"`
	Window     window.Weekly  `json:"window"`
	Bars       []model.AggBar `json:"bars"`
	Incomplete int            `json:"incomplete"` // bars flagged below the completeness threshold
	RawCount   int            `json:"rawCount"`
	BuiltAt    int64          `json:"builtAt"`
}

// Builder wires a DataProvider to the candle pipeline.
type Builder struct {
	Provider     provider.DataProvider
	Now          func() time.Time
	Log          *slog.Logger
	Limit        int
	LookbackDays int
}

// NewBuilder returns a Builder with defaults for everything but the provider.
func NewBuilder(dp provider.DataProvider, log *slog.Logger) *Builder {
	return &Builder{
		Provider:     dp,
		Now:          time.Now,
		Log:          log,
		Limit:        DefaultLimit,
		LookbackDays: DefaultLookbackDays,
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Log != nil {
		return b.Log
	}
	return slog.Default()
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Build fetches and prepares the series. Malformed upstream rows never fail the build;
// only transport errors and caller mistakes do.
func (b *Builder) Build(ctx context.Context, ticker string, requested View) (*Series, error) {
	view, err := ParseView(string(requested))
	if err != nil {
		return nil, err
	}
	if b.Provider == nil {
		return nil, fmt.Errorf("chart: no data provider")
	}
	now := b.now()
	lookback := b.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	log := b.logger().With("ticker", ticker, "view", string(view))

	raw, err := b.Provider.FetchBars(ctx, provider.Query{
		Ticker:    ticker,
		Timeframe: view.SourceTimeframe(),
		Limit:     b.Limit,
		From:      now.AddDate(0, 0, -lookback),
		To:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", ticker, view.SourceTimeframe(), err)
	}

	bars := candle.NormalizeSeries(raw, candle.WithNow(now), candle.WithObserver(log))
	agg, err := candle.Aggregate(bars, view.Granularity(),
		candle.WithSourceStep(view.SourceStep()),
		candle.WithObserver(log),
	)
	if err != nil {
		return nil, err
	}

	w := window.Resolve(window.AggTimes(agg), now.UnixMilli())
	if w.Anchored() {
		log.Info("no data in current week, anchored to latest data",
			"start", time.UnixMilli(w.StartMs).UTC().Format(time.RFC3339),
			"end", time.UnixMilli(w.EndMs).UTC().Format(time.RFC3339))
	}
	shown := window.Filter(agg, w)

	s := &Series{
		Ticker:   ticker,
		View:     view,
		Window:   w,
		Bars:     shown,
		RawCount: len(raw),
		BuiltAt:  now.UnixMilli(),
	}
	for _, bar := range shown {
		if !bar.Complete {
			s.Incomplete++
		}
	}
	log.Debug("chart built", "raw", len(raw), "normalized", len(bars), "buckets", len(agg), "shown", len(shown), "source", string(w.Source))
	return s, nil
}
