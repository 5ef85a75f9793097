package candle

import (
	"math"
	"strings"
	"time"

	"vitas-chart/internal/model"
)

// SecondsThreshold: numeric timestamps below this are epoch seconds, otherwise milliseconds.
const SecondsThreshold = 10_000_000_000

const year = 365 * 24 * time.Hour

// Accepted string layouts. Strings without an offset are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// NormalizeTime converts a raw timestamp to UTC epoch milliseconds.
// It returns false when the value is unparseable, non-finite or not positive.
func NormalizeTime(t model.FlexTime) (int64, bool) {
	switch t.Kind {
	case model.TimeNumber:
		return millisFromNumber(t.Num)
	case model.TimeString:
		return ParseTimeString(t.Str)
	default:
		return 0, false
	}
}

func millisFromNumber(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < SecondsThreshold {
		v *= 1000
	}
	v = math.Floor(v)
	if v <= 0 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// ParseTimeString parses an ISO 8601 style date/time string into UTC epoch milliseconds.
func ParseTimeString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range timeLayouts {
		ts, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		ms := ts.UnixMilli()
		if ms <= 0 {
			return 0, false
		}
		return ms, true
	}
	return 0, false
}

// IsValidUTCTimestamp rejects timestamps outside [now-10y, now+1y].
// Guards against unit mix-ups (seconds read as ms and the like) in upstream data.
func IsValidUTCTimestamp(ms int64, now time.Time) bool {
	if ms <= 0 {
		return false
	}
	nowMs := now.UnixMilli()
	minTime := nowMs - (10 * year).Milliseconds()
	maxTime := nowMs + year.Milliseconds()
	return ms >= minTime && ms <= maxTime
}
