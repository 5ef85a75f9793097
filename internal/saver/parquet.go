package saver

import (
	"github.com/parquet-go/parquet-go"

	"vitas-chart/internal/model"
)

// ParquetRow là schema phẳng của một nến trong file Parquet
// (parquet-go không đọc được field embed của AggBar).
type ParquetRow struct {
	Timestamp int64   `parquet:"t"`
	Open      float64 `parquet:"o"`
	High      float64 `parquet:"h"`
	Low       float64 `parquet:"l"`
	Close     float64 `parquet:"c"`
	Volume    float64 `parquet:"v"`
	Count     int64   `parquet:"n"`
	Complete  bool    `parquet:"complete"`
}

// ParquetSaver lưu series dưới dạng Parquet.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []model.AggBar, path string) error {
	rows := make([]ParquetRow, len(bars))
	for i, b := range bars {
		rows[i] = ParquetRow{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			Count:     int64(b.Count),
			Complete:  b.Complete,
		}
	}
	return parquet.WriteFile(path, rows)
}
