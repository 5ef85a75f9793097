package candle

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"vitas-chart/internal/market"
	"vitas-chart/internal/model"
)

// ErrUnsupportedGranularity is returned for anything other than model.Hourly and model.DailyClose.
var ErrUnsupportedGranularity = errors.New("candle: unsupported granularity")

// CompletenessThreshold is the share of expected source bars a bucket needs to be
// marked Complete. Heuristic, tune freely.
const CompletenessThreshold = 0.8

const tradingDay = 6*time.Hour + 30*time.Minute

// HourAnchor truncates ms to the start of its local clock hour.
func HourAnchor(ms int64) int64 {
	t := market.In(ms)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, market.Location).UnixMilli()
}

// DayCloseAnchor returns 16:00 local on the local calendar day of ms.
func DayCloseAnchor(ms int64) int64 {
	t := market.In(ms)
	return time.Date(t.Year(), t.Month(), t.Day(), market.SessionCloseHour, 0, 0, 0, market.Location).UnixMilli()
}

// IsExactHourAnchor reports whether ms sits exactly on a local clock hour.
func IsExactHourAnchor(ms int64) bool {
	return HourAnchor(ms) == ms
}

// IsExactDayCloseAnchor reports whether ms is exactly 16:00:00.000 local.
func IsExactDayCloseAnchor(ms int64) bool {
	return DayCloseAnchor(ms) == ms
}

// anchorFunc returns the anchor function for g.
func anchorFunc(g model.Granularity) (func(int64) int64, error) {
	switch g {
	case model.Hourly:
		return HourAnchor, nil
	case model.DailyClose:
		return DayCloseAnchor, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, g)
	}
}

// Anchor returns the bucket anchor of ms for g.
func Anchor(ms int64, g model.Granularity) (int64, error) {
	anchorOf, err := anchorFunc(g)
	if err != nil {
		return 0, err
	}
	return anchorOf(ms), nil
}

// ExpectedBars is how many source bars of length step a full bucket holds:
// 60 for an hour of 1m bars, 390 for a 6.5h trading day of 1m bars.
func ExpectedBars(g model.Granularity, step time.Duration) (int, error) {
	if step <= 0 {
		step = time.Minute
	}
	var span time.Duration
	switch g {
	case model.Hourly:
		span = time.Hour
	case model.DailyClose:
		span = tradingDay
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, g)
	}
	n := int(span / step)
	if n < 1 {
		n = 1
	}
	return n, nil
}

func isComplete(count, expected int) bool {
	return float64(count) >= float64(expected)*CompletenessThreshold
}

// Aggregate folds bars into one candle per anchor bucket, ascending by anchor.
// Buckets are never filtered by session; that is the window's job.
func Aggregate(bars []model.Bar, g model.Granularity, opts ...Option) ([]model.AggBar, error) {
	o := newOptions(opts)
	anchorOf, err := anchorFunc(g)
	if err != nil {
		return nil, err
	}
	expected, err := ExpectedBars(g, o.sourceStep)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		o.observer.Debug("aggregate: no input bars", "granularity", g)
		return []model.AggBar{}, nil
	}

	groups := make(map[int64][]model.Bar)
	for _, b := range bars {
		anchor := anchorOf(b.Timestamp)
		groups[anchor] = append(groups[anchor], b)
	}

	out := make([]model.AggBar, 0, len(groups))
	incomplete := 0
	for anchor, group := range groups {
		agg := fold(anchor, group)
		agg.Complete = isComplete(agg.Count, expected)
		if !agg.Complete {
			incomplete++
		}
		out = append(out, agg)
	}
	slices.SortFunc(out, func(a, b model.AggBar) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	o.observer.Debug("aggregate: done", "granularity", g, "in", len(bars), "buckets", len(out), "incomplete", incomplete)
	return out, nil
}

// fold sorts its own copy of the bucket and reduces it. group is never empty.
func fold(anchor int64, group []model.Bar) model.AggBar {
	sorted := slices.Clone(group)
	slices.SortStableFunc(sorted, func(a, b model.Bar) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	first, last := sorted[0], sorted[len(sorted)-1]
	agg := model.AggBar{
		Bar: model.Bar{
			Timestamp: anchor,
			Open:      first.Open,
			High:      math.Inf(-1),
			Low:       math.Inf(1),
			Close:     last.Close,
		},
		Count: len(sorted),
	}
	for _, b := range sorted {
		agg.High = math.Max(agg.High, b.High)
		agg.Low = math.Min(agg.Low, b.Low)
		agg.Volume += b.Volume
	}
	return agg
}

// HasEnoughData reports whether bars hold at least CompletenessThreshold of the
// expected source bars for the bucket anchored at anchor.
func HasEnoughData(bars []model.Bar, anchor int64, g model.Granularity, opts ...Option) (bool, error) {
	o := newOptions(opts)
	anchorOf, err := anchorFunc(g)
	if err != nil {
		return false, err
	}
	expected, err := ExpectedBars(g, o.sourceStep)
	if err != nil {
		return false, err
	}
	count := 0
	for _, b := range bars {
		if anchorOf(b.Timestamp) == anchor {
			count++
		}
	}
	ok := isComplete(count, expected)
	o.observer.Debug("aggregate: completeness", "anchor", anchor, "granularity", g, "expected", expected, "actual", count, "enough", ok)
	return ok, nil
}
