package provider

import (
	"context"

	"vitas-chart/internal/model"
	"vitas-chart/internal/provider/vitas"
)

// VitasProvider is a DataProvider backed by the Vitas backend REST API.
type VitasProvider struct {
	*vitas.Client
}

// NewVitasProvider creates a Vitas-backed DataProvider.
func NewVitasProvider(cfg vitas.Config) (*VitasProvider, error) {
	c, err := vitas.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &VitasProvider{Client: c}, nil
}

// GetName returns provider name
func (p *VitasProvider) GetName() string {
	return "Vitas"
}

// FetchBars returns the historical records for q as received (untrusted).
func (p *VitasProvider) FetchBars(ctx context.Context, q Query) ([]model.RawBar, error) {
	return p.Client.Historical(ctx, vitas.HistoricalRequest{
		Ticker:    q.Ticker,
		Timeframe: q.Timeframe,
		Limit:     q.Limit,
		From:      q.From,
		To:        q.To,
	})
}

// SetLogFunc sets fan-in logger for request/response lines.
func (p *VitasProvider) SetLogFunc(fn vitas.LogFunc) {
	if p.Client != nil {
		p.Client.LogFunc = fn
	}
}
