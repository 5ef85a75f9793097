package provider

import (
	"context"
	"time"

	"vitas-chart/internal/model"
)

// Query selects raw bars for one ticker.
type Query struct {
	Ticker    string
	Timeframe string // source timeframe: 1m, 15m, 1h, 4h, 1d
	Limit     int
	From      time.Time // zero = unbounded
	To        time.Time // zero = unbounded
}

// DataProvider is the abstraction used by the application when accessing a data source.
// Implementations own their transport and resource cleanup.
type DataProvider interface {
	GetName() string
	FetchBars(ctx context.Context, q Query) ([]model.RawBar, error)
	Close() error
}
