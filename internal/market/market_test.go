package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func vn(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, Location)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayKeyUsesLocalDate(t *testing.T) {
	// 2024-01-15T18:30Z is already 2024-01-16 01:30 in Hanoi
	ms := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, 20240116, DayKey(ms))
	assert.Equal(t, 20240115, DayKey(time.Date(2024, 1, 15, 16, 59, 0, 0, time.UTC).UnixMilli()))
}

func TestWithinSession(t *testing.T) {
	cases := map[string]bool{
		"2024-01-15 08:59": false,
		"2024-01-15 09:00": true,
		"2024-01-15 12:30": true,
		"2024-01-15 16:00": true,
		"2024-01-15 16:01": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, WithinSession(vn(in).UnixMilli()), in)
	}
}

func TestIsMarketOpen(t *testing.T) {
	assert.True(t, IsMarketOpen(vn("2024-01-15 09:00")))
	assert.True(t, IsMarketOpen(vn("2024-01-19 15:59")))
	assert.False(t, IsMarketOpen(vn("2024-01-19 16:00")))
	assert.False(t, IsMarketOpen(vn("2024-01-20 10:00"))) // Saturday
	assert.True(t, IsAfterHours(vn("2024-01-21 10:00")))  // Sunday
	// same instant expressed in UTC
	assert.True(t, IsMarketOpen(time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)))
}

func TestUntilNextOpen(t *testing.T) {
	assert.Equal(t, time.Minute, UntilNextOpen(vn("2024-01-15 10:00")))
	assert.Equal(t, 90*time.Minute, UntilNextOpen(vn("2024-01-15 07:30")))
	// Monday after close -> Tuesday 09:00
	assert.Equal(t, 17*time.Hour, UntilNextOpen(vn("2024-01-15 16:00")))
	// Friday evening -> Monday 09:00
	assert.Equal(t, 2*24*time.Hour+12*time.Hour, UntilNextOpen(vn("2024-01-19 21:00")))
	// Saturday before 09:00 still waits for Monday
	assert.Equal(t, 2*24*time.Hour+1*time.Hour, UntilNextOpen(vn("2024-01-20 08:00")))
}
