package saver

import (
	"strings"

	"vitas-chart/internal/model"
)

// SeriesSaver ghi một chuỗi nến đã gom (1 ticker, 1 view) ra file.
// Exporter chỉ phụ thuộc interface; app chọn implementation theo SAVE_FORMAT.
type SeriesSaver interface {
	Save(bars []model.AggBar, path string) error
	Extension() string
}

// Formats lists what NewSeriesSaver accepts.
var Formats = []string{"csv", "parquet", "json"}

// NewSeriesSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewSeriesSaver(format string) SeriesSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}
