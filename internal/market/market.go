// Package market holds the trading-region calendar: fixed UTC+7 civil time,
// calendar day keys and HOSE/HNX session hours.
package market

import "time"

// UTCOffset of the trading region. Vietnam has no daylight saving, so a fixed
// zone is used instead of the tz database.
const UTCOffset = 7 * time.Hour

const (
	SessionOpenHour  = 9
	SessionCloseHour = 16

	// recheckWhileOpen is how often callers poll while the session is running.
	recheckWhileOpen = time.Minute
)

// Location is the trading region's civil time (GMT+7).
var Location = time.FixedZone("ICT", int(UTCOffset/time.Second))

// In returns the trading-region civil time for a UTC epoch millisecond value.
func In(ms int64) time.Time {
	return time.UnixMilli(ms).In(Location)
}

// DayKey returns the local calendar date of ms as YYYYMMDD.
func DayKey(ms int64) int {
	y, m, d := In(ms).Date()
	return y*10000 + int(m)*100 + d
}

// WithinSession reports whether ms falls between 09:00 and 16:00 local, both inclusive.
func WithinSession(ms int64) bool {
	t := In(ms)
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= SessionOpenHour*60 && minutes <= SessionCloseHour*60
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsMarketOpen reports whether the market is open at t (Mon-Fri, [09:00, 16:00) local).
func IsMarketOpen(t time.Time) bool {
	vn := t.In(Location)
	if !isWeekday(vn) {
		return false
	}
	m := minutesOfDay(vn)
	return m >= SessionOpenHour*60 && m < SessionCloseHour*60
}

// IsAfterHours reports whether t is on a weekend or outside [09:00, 16:00) local.
func IsAfterHours(t time.Time) bool {
	return !IsMarketOpen(t)
}

// UntilNextOpen returns how long to wait before the next session open.
// While the market is open it returns the one-minute recheck cadence.
func UntilNextOpen(t time.Time) time.Duration {
	vn := t.In(Location)
	if IsMarketOpen(vn) {
		return recheckWhileOpen
	}
	open := time.Date(vn.Year(), vn.Month(), vn.Day(), SessionOpenHour, 0, 0, 0, Location)
	if isWeekday(vn) && vn.Before(open) {
		return open.Sub(vn)
	}
	// after close or weekend: 09:00 of the next weekday
	next := open.AddDate(0, 0, 1)
	for !isWeekday(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(vn)
}
