//go:build wireinject
// +build wireinject

package main

import (
	"vitas-chart/internal/app"
	"vitas-chart/internal/provider"

	"github.com/google/wire"
)

// InitializeApp builds App via Wire.
// Caller must call a.DP.Close() when done.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideSeriesSaver,
		app.ProvideVitasProvider,
		wire.Bind(new(provider.DataProvider), new(*provider.VitasProvider)),
		app.ProvideChartBuilder,
		app.ProvideHTTPServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
