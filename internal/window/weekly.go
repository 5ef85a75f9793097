// Package window picks the trading week a chart displays: Monday 09:00 to
// Friday 16:00 in trading-region time, falling back to the latest week that has data.
package window

import (
	"time"

	"vitas-chart/internal/market"
	"vitas-chart/internal/model"
)

// Source tells how the window was placed.
type Source string

const (
	SourceCurrentWeek    Source = "current-week"
	SourceAnchoredToData Source = "anchored-to-latest-data"
)

// Span is the fixed Monday 09:00 -> Friday 16:00 length.
const Span = 4*24*time.Hour + 7*time.Hour

const day = 24 * time.Hour

// Weekly is one resolved display window. StartMs and EndMs are both inclusive.
type Weekly struct {
	StartMs        int64  `json:"startMs"`
	EndMs          int64  `json:"endMs"`
	AllowedDayKeys []int  `json:"allowedDayKeys"` // YYYYMMDD, trading-region calendar
	Source         Source `json:"source"`
}

// Contains reports whether ms lies in [StartMs, EndMs].
func (w Weekly) Contains(ms int64) bool {
	return ms >= w.StartMs && ms <= w.EndMs
}

// Anchored reports whether the window was moved off the current week.
func (w Weekly) Anchored() bool {
	return w.Source == SourceAnchoredToData
}

// AllowsDay reports whether the local calendar day of ms is one of the window's days.
func (w Weekly) AllowsDay(ms int64) bool {
	key := market.DayKey(ms)
	for _, k := range w.AllowedDayKeys {
		if k == key {
			return true
		}
	}
	return false
}

// weekBounds returns Monday 09:00 and Friday 16:00 of the local week containing ms.
func weekBounds(ms int64) (start, end int64) {
	t := market.In(ms)
	dow := (int(t.Weekday()) + 6) % 7 // Mon=0 ... Sun=6
	mon := time.Date(t.Year(), t.Month(), t.Day()-dow, market.SessionOpenHour, 0, 0, 0, market.Location)
	fri := time.Date(t.Year(), t.Month(), t.Day()-dow+4, market.SessionCloseHour, 0, 0, 0, market.Location)
	return mon.UnixMilli(), fri.UnixMilli()
}

func buildAllowedKeys(startMs, endMs int64) []int {
	keys := make([]int, 0, 5)
	for d := startMs; d <= endMs; d += day.Milliseconds() {
		keys = append(keys, market.DayKey(d))
	}
	return keys
}

func newWeekly(anchorMs int64, src Source) Weekly {
	start, end := weekBounds(anchorMs)
	return Weekly{
		StartMs:        start,
		EndMs:          end,
		AllowedDayKeys: buildAllowedKeys(start, end),
		Source:         src,
	}
}

// Resolve returns the week containing nowMs. If none of times falls inside it
// and times is not empty, the window is re-anchored to the week of the latest time.
func Resolve(times []int64, nowMs int64) Weekly {
	current := newWeekly(nowMs, SourceCurrentWeek)
	if len(times) == 0 {
		return current
	}

	latest := times[0]
	for _, t := range times {
		if current.Contains(t) {
			return current
		}
		if t > latest {
			latest = t
		}
	}
	if latest <= 0 {
		return current
	}
	return newWeekly(latest, SourceAnchoredToData)
}

// Times extracts the timestamp column of bars.
func Times(bars []model.Bar) []int64 {
	out := make([]int64, len(bars))
	for i, b := range bars {
		out[i] = b.Timestamp
	}
	return out
}

// AggTimes extracts the anchor column of aggregated bars.
func AggTimes(bars []model.AggBar) []int64 {
	out := make([]int64, len(bars))
	for i, b := range bars {
		out[i] = b.Timestamp
	}
	return out
}

// Filter keeps the bars inside w that fall on an allowed day and within
// session hours. Order is preserved; the input is not modified.
func Filter(bars []model.AggBar, w Weekly) []model.AggBar {
	out := make([]model.AggBar, 0, len(bars))
	for _, b := range bars {
		if !w.Contains(b.Timestamp) || !w.AllowsDay(b.Timestamp) || !market.WithinSession(b.Timestamp) {
			continue
		}
		out = append(out, b)
	}
	return out
}
