package app

import (
	"fmt"
	"log/slog"
	"os"

	"vitas-chart/internal/chart"
	"vitas-chart/internal/export"
	"vitas-chart/internal/provider"
	"vitas-chart/internal/saver"
)

// Deps is everything RunFlow needs, assembled by the injector.
type Deps struct {
	Config  *Config
	DP      provider.DataProvider
	Builder *chart.Builder
	Saver   saver.SeriesSaver
	Tickers []string
	Views   []chart.View
}

// ExportOptions builds the worker pool options for an export run.
func ExportOptions(d *Deps) export.Options {
	opts := export.Options{
		Builder: d.Builder,
		Saver:   d.Saver,
		OutDir:  d.Config.SaveBaseDir(),
		Workers: d.Config.Workers,
	}
	if r, ok := d.DP.(export.LogRouter); ok {
		opts.Logs = r
	}
	return opts
}

// PrepareExport creates the output dir and logs the file layout.
func PrepareExport(d *Deps) error {
	dir := d.Config.SaveBaseDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	slog.Info("wire",
		"provider", d.DP.GetName(),
		"format", d.Saver.Extension(),
		"dir", dir,
		"pattern", "{TICKER}/{TICKER}_{view}_{startDay}_to_{endDay}."+d.Saver.Extension(),
		"workers", d.Config.Workers,
	)
	return nil
}
