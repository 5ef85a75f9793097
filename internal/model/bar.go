package model

// Bar is one normalized OHLCV bar (1m, 15m, ...).
// Timestamp luôn là UTC epoch milliseconds, dùng chung cho candle, saver và JSON/parquet.
type Bar struct {
	Timestamp int64   `json:"t" parquet:"t"` // Unix timestamp in milliseconds
	Open      float64 `json:"o" parquet:"o"`
	High      float64 `json:"h" parquet:"h"`
	Low       float64 `json:"l" parquet:"l"`
	Close     float64 `json:"c" parquet:"c"`
	Volume    float64 `json:"v" parquet:"v"`
}

// AggBar is a bar folded from finer bars. Timestamp is the bucket anchor.
type AggBar struct {
	Bar
	Count    int  `json:"n"`        // number of contributing bars
	Complete bool `json:"complete"` // advisory, see candle.CompletenessThreshold
}

// Granularity selects the aggregation bucket.
type Granularity string

const (
	Hourly     Granularity = "1h"
	DailyClose Granularity = "1d"
)

// Valid reports whether g is a supported granularity.
func (g Granularity) Valid() bool {
	return g == Hourly || g == DailyClose
}

// RawFromBars converts normalized bars back to raw records (ms numeric time).
func RawFromBars(bars []Bar) []RawBar {
	out := make([]RawBar, len(bars))
	for i, b := range bars {
		out[i] = RawBar{
			Time:   TimeFromNumber(float64(b.Timestamp)),
			Open:   FlexFloat(b.Open),
			High:   FlexFloat(b.High),
			Low:    FlexFloat(b.Low),
			Close:  FlexFloat(b.Close),
			Volume: FlexFloat(b.Volume),
		}
	}
	return out
}
