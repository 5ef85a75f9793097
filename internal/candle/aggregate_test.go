package candle

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitas-chart/internal/market"
	"vitas-chart/internal/model"
)

func vnMillis(y int, m time.Month, d, hh, mm int) int64 {
	return time.Date(y, m, d, hh, mm, 0, 0, market.Location).UnixMilli()
}

// minuteBars returns n one-minute bars starting at start with predictable prices.
func minuteBars(start int64, n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		p := 100 + float64(i%7)
		bars[i] = model.Bar{
			Timestamp: start + int64(i)*60_000,
			Open:      p,
			High:      p + 1,
			Low:       p - 1,
			Close:     p + 0.5,
			Volume:    10,
		}
	}
	return bars
}

func TestAnchors(t *testing.T) {
	ms := vnMillis(2024, 1, 15, 10, 37) + 12_345
	assert.Equal(t, vnMillis(2024, 1, 15, 10, 0), HourAnchor(ms))
	assert.Equal(t, vnMillis(2024, 1, 15, 16, 0), DayCloseAnchor(ms))

	// 23:30 local belongs to the same local day even though UTC already rolled
	late := vnMillis(2024, 1, 15, 23, 30)
	assert.Equal(t, vnMillis(2024, 1, 15, 16, 0), DayCloseAnchor(late))
	early := vnMillis(2024, 1, 16, 0, 30)
	assert.Equal(t, vnMillis(2024, 1, 16, 16, 0), DayCloseAnchor(early))

	assert.True(t, IsExactHourAnchor(vnMillis(2024, 1, 15, 11, 0)))
	assert.False(t, IsExactHourAnchor(vnMillis(2024, 1, 15, 11, 1)))
	assert.True(t, IsExactDayCloseAnchor(vnMillis(2024, 1, 15, 16, 0)))
	assert.False(t, IsExactDayCloseAnchor(vnMillis(2024, 1, 15, 15, 0)))
}

func TestAggregateHourlyFold(t *testing.T) {
	start := vnMillis(2024, 1, 15, 10, 0)
	bars := minuteBars(start, 60)
	bars[0].Open = 99.25
	bars[17].High = 250
	bars[42].Low = 3
	bars[59].Close = 111.75

	shuffled := append([]model.Bar(nil), bars...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out, err := Aggregate(shuffled, model.Hourly)
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, start, got.Timestamp)
	assert.Equal(t, 99.25, got.Open)
	assert.Equal(t, 250.0, got.High)
	assert.Equal(t, 3.0, got.Low)
	assert.Equal(t, 111.75, got.Close)
	assert.Equal(t, 600.0, got.Volume)
	assert.Equal(t, 60, got.Count)
	assert.True(t, got.Complete)
}

func TestAggregateHourlyMultipleBucketsAscending(t *testing.T) {
	bars := minuteBars(vnMillis(2024, 1, 15, 9, 30), 150) // 09:30 .. 11:59

	out, err := Aggregate(bars, model.Hourly)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, vnMillis(2024, 1, 15, 9, 0), out[0].Timestamp)
	assert.Equal(t, vnMillis(2024, 1, 15, 10, 0), out[1].Timestamp)
	assert.Equal(t, vnMillis(2024, 1, 15, 11, 0), out[2].Timestamp)

	assert.Equal(t, 30, out[0].Count)
	assert.False(t, out[0].Complete)
	assert.Equal(t, 60, out[1].Count)
	assert.True(t, out[1].Complete)
}

func TestAggregateOutsideSessionStillBuckets(t *testing.T) {
	bars := minuteBars(vnMillis(2024, 1, 15, 20, 0), 60)

	out, err := Aggregate(bars, model.Hourly)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, vnMillis(2024, 1, 15, 20, 0), out[0].Timestamp)
}

func TestAggregateDailyClose(t *testing.T) {
	day1 := minuteBars(vnMillis(2024, 1, 15, 9, 0), 390)
	day2 := minuteBars(vnMillis(2024, 1, 16, 9, 0), 100)
	bars := append(append([]model.Bar(nil), day1...), day2...)

	out, err := Aggregate(bars, model.DailyClose)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, vnMillis(2024, 1, 15, 16, 0), out[0].Timestamp)
	assert.Equal(t, day1[0].Open, out[0].Open)
	assert.Equal(t, day1[389].Close, out[0].Close)
	assert.Equal(t, 3900.0, out[0].Volume)
	assert.True(t, out[0].Complete)

	assert.Equal(t, vnMillis(2024, 1, 16, 16, 0), out[1].Timestamp)
	assert.False(t, out[1].Complete)
}

func TestAggregateSourceStep(t *testing.T) {
	start := vnMillis(2024, 1, 15, 9, 0)
	bars := make([]model.Bar, 0, 26)
	for i := 0; i < 26; i++ {
		bars = append(bars, model.Bar{Timestamp: start + int64(i)*15*60_000, Open: 1, High: 2, Low: 0.5, Close: 1, Volume: 1})
	}

	out, err := Aggregate(bars, model.DailyClose, WithSourceStep(15*time.Minute))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Complete)

	out, err = Aggregate(bars, model.DailyClose)
	require.NoError(t, err)
	assert.False(t, out[0].Complete, "26 bars are far from 390 one-minute bars")
}

func TestAggregateEmptyAndInvalid(t *testing.T) {
	out, err := Aggregate(nil, model.Hourly)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = Aggregate(minuteBars(1705290000000, 3), model.Granularity("4h"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedGranularity))

	// invalid granularity is rejected even for empty input
	_, err = Aggregate(nil, model.Granularity(""))
	assert.ErrorIs(t, err, ErrUnsupportedGranularity)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	bars := minuteBars(vnMillis(2024, 1, 15, 10, 0), 5)
	bars[0], bars[4] = bars[4], bars[0]
	snapshot := append([]model.Bar(nil), bars...)

	_, err := Aggregate(bars, model.Hourly)
	require.NoError(t, err)
	assert.Equal(t, snapshot, bars)
}

func TestHasEnoughData(t *testing.T) {
	anchor := vnMillis(2024, 1, 15, 10, 0)

	ok, err := HasEnoughData(minuteBars(anchor, 48), anchor, model.Hourly)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasEnoughData(minuteBars(anchor, 47), anchor, model.Hourly)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = HasEnoughData(nil, anchor, model.Granularity("1w"))
	assert.ErrorIs(t, err, ErrUnsupportedGranularity)
}

func TestExpectedBars(t *testing.T) {
	n, err := ExpectedBars(model.Hourly, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 60, n)

	n, err = ExpectedBars(model.DailyClose, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 390, n)

	n, err = ExpectedBars(model.Hourly, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAnchorByGranularity(t *testing.T) {
	ms := vnMillis(2024, 1, 15, 10, 37)

	a, err := Anchor(ms, model.Hourly)
	require.NoError(t, err)
	assert.Equal(t, vnMillis(2024, 1, 15, 10, 0), a)

	a, err = Anchor(ms, model.DailyClose)
	require.NoError(t, err)
	assert.Equal(t, vnMillis(2024, 1, 15, 16, 0), a)

	_, err = Anchor(ms, model.Granularity("4h"))
	assert.ErrorIs(t, err, ErrUnsupportedGranularity)
}

func TestHasEnoughDataDaily(t *testing.T) {
	anchor := vnMillis(2024, 1, 15, 16, 0)
	bars := minuteBars(vnMillis(2024, 1, 15, 9, 0), 312) // 0.8 * 390
	bars = append(bars, minuteBars(vnMillis(2024, 1, 16, 9, 0), 390)...)

	ok, err := HasEnoughData(bars, anchor, model.DailyClose)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasEnoughData(bars[1:], anchor, model.DailyClose)
	require.NoError(t, err)
	assert.False(t, ok)
}
