package candle

import (
	"cmp"
	"slices"

	"vitas-chart/internal/model"
)

// NormalizeSeries converts raw records into bars sorted ascending by time with
// unique timestamps. Records with a bad timestamp are dropped (and with WithNow,
// implausible ones too); missing or non-numeric OHLCV fields are already 0.
// When two records share a timestamp the later one replaces the earlier one.
func NormalizeSeries(raw []model.RawBar, opts ...Option) []model.Bar {
	o := newOptions(opts)
	if len(raw) == 0 {
		return []model.Bar{}
	}

	uniq := make(map[int64]int, len(raw)) // ms -> index in out
	out := make([]model.Bar, 0, len(raw))
	var malformed, implausible, replaced int

	for _, r := range raw {
		ms, ok := NormalizeTime(r.Time)
		if !ok {
			malformed++
			continue
		}
		if o.checkRange && !IsValidUTCTimestamp(ms, o.now) {
			implausible++
			continue
		}
		bar := model.Bar{
			Timestamp: ms,
			Open:      r.Open.Float64(),
			High:      r.High.Float64(),
			Low:       r.Low.Float64(),
			Close:     r.Close.Float64(),
			Volume:    r.Volume.Float64(),
		}
		if i, dup := uniq[ms]; dup {
			out[i] = bar
			replaced++
			continue
		}
		uniq[ms] = len(out)
		out = append(out, bar)
	}

	slices.SortFunc(out, func(a, b model.Bar) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	if malformed > 0 || implausible > 0 {
		o.observer.Warn("normalize: dropped records", "malformed", malformed, "implausible", implausible)
	}
	o.observer.Debug("normalize: done", "in", len(raw), "out", len(out), "replaced", replaced)
	return out
}

// IsAscending reports whether bars are strictly ascending by Timestamp.
func IsAscending(bars []model.Bar) bool {
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp <= bars[i-1].Timestamp {
			return false
		}
	}
	return true
}
