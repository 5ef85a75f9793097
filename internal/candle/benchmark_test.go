package candle

import (
	"testing"
	"time"

	"vitas-chart/internal/model"
)

// three weeks of 1m session bars, as fetched for the 1h view
const benchDays = 15

func benchRaw() []model.RawBar {
	var bars []model.Bar
	for d := 0; d < benchDays; d++ {
		bars = append(bars, minuteBars(vnMillis(2024, 1, 1+d, 9, 0), 390)...)
	}
	raw := model.RawFromBars(bars)
	// backend trả về theo thứ tự giảm dần
	for i, j := 0, len(raw)-1; i < j; i, j = i+1, j-1 {
		raw[i], raw[j] = raw[j], raw[i]
	}
	return raw
}

func BenchmarkNormalizeSeries(b *testing.B) {
	raw := benchRaw()
	now := time.UnixMilli(vnMillis(2024, 1, 20, 10, 0))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NormalizeSeries(raw, WithNow(now))
	}
}

func BenchmarkAggregateHourly(b *testing.B) {
	bars := NormalizeSeries(benchRaw())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Aggregate(bars, model.Hourly); err != nil {
			b.Fatal(err)
		}
	}
}
