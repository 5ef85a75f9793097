package main

import (
	"log/slog"
	"os"

	"vitas-chart/internal/app"
	"vitas-chart/internal/chart"
	"vitas-chart/internal/httpapi"
	"vitas-chart/internal/provider"
	"vitas-chart/internal/saver"
	"vitas-chart/internal/slogx"
)

// App holds application dependencies built by Wire.
type App struct {
	Config  *app.Config
	Logger  *slog.Logger
	DP      provider.DataProvider
	Builder *chart.Builder
	Saver   saver.SeriesSaver
	Server  *httpapi.Server
}

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.DP.Close()

	cfg := a.Config
	slog.Info("using data provider", "provider", a.DP.GetName(), "url", cfg.Vitas.APIURL, "mode", cfg.RunMode)

	deps := &app.Deps{Config: cfg, DP: a.DP, Builder: a.Builder, Saver: a.Saver}
	if cfg.RunMode != app.ModeServe {
		deps.Tickers, err = app.LoadTickers(cfg)
		if err != nil {
			slog.Error("failed to get tickers", "error", err)
			os.Exit(1)
		}
		deps.Views, _ = cfg.ChartViews() // validated in LoadConfig
		slog.Info("got tickers", "count", len(deps.Tickers), "views", cfg.Views)
	}

	if err := app.RunFlow(deps, a.Server); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
