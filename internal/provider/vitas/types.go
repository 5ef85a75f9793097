package vitas

import (
	"vitas-chart/internal/model"
)

// BaseResponse is the envelope every Vitas endpoint answers with.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta is the optional paging block.
type Meta struct {
	Total   int  `json:"total,omitempty"`
	Page    int  `json:"page,omitempty"`
	Limit   int  `json:"limit,omitempty"`
	HasMore bool `json:"hasMore,omitempty"`
}

// HistoricalResponse is the payload of /market-data/query/historical/{ticker}.
// Rows stay raw; candle.NormalizeSeries decides what survives.
type HistoricalResponse = BaseResponse[[]model.RawBar]
