package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"vitas-chart/internal/chart"
	"vitas-chart/internal/httpapi"
	"vitas-chart/internal/provider"
	"vitas-chart/internal/saver"
	"vitas-chart/internal/slogx"
)

// ProvideConfig loads config from .env and environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideLogger builds the process logger at LOG_LEVEL and installs it as default (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	l := slogx.NewDefault(cfg.LogLevel)
	slog.SetDefault(l)
	return l
}

// ProvideSeriesSaver creates SeriesSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvideSeriesSaver(cfg *Config) (saver.SeriesSaver, error) {
	s := saver.NewSeriesSaver(cfg.SaveFormat)
	if s == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: %s)", cfg.SaveFormat, strings.Join(saver.Formats, ", "))
	}
	return s, nil
}

// ProvideVitasProvider creates the Vitas-backed DataProvider (for Wire).
// Caller must call dp.Close() when shutting down.
func ProvideVitasProvider(cfg *Config) (*provider.VitasProvider, error) {
	return provider.NewVitasProvider(cfg.VitasClientConfig())
}

// ProvideChartBuilder wires the data provider into the candle pipeline (for Wire).
func ProvideChartBuilder(cfg *Config, dp provider.DataProvider, log *slog.Logger) *chart.Builder {
	b := chart.NewBuilder(dp, log)
	if cfg.FetchLimit > 0 {
		b.Limit = cfg.FetchLimit
	}
	if cfg.LookbackDays > 0 {
		b.LookbackDays = cfg.LookbackDays
	}
	return b
}

// ProvideHTTPServer creates the chart API server (for Wire).
// gin runs in release mode unless PROFILE is dev.
func ProvideHTTPServer(cfg *Config, b *chart.Builder, log *slog.Logger) *httpapi.Server {
	if isDevProfile(cfg.Profile) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpapi.NewServer(b, log)
}
