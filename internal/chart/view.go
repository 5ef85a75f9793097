package chart

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vitas-chart/internal/model"
)

// ErrUnknownView is returned by ParseView for anything but "1h" and "1d".
var ErrUnknownView = errors.New("chart: unknown view")

// View is what the dashboard displays: hourly or daily candles.
type View string

const (
	ViewHourly View = "1h"
	ViewDaily  View = "1d"
)

// Views lists the supported views.
var Views = []View{ViewHourly, ViewDaily}

type viewSpec struct {
	source      string
	step        time.Duration
	granularity model.Granularity
}

// 1H view dùng dữ liệu 1m, 1D view dùng dữ liệu 15m.
var viewSpecs = map[View]viewSpec{
	ViewHourly: {source: "1m", step: time.Minute, granularity: model.Hourly},
	ViewDaily:  {source: "15m", step: 15 * time.Minute, granularity: model.DailyClose},
}

// ParseView validates s.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := viewSpecs[v]; !ok {
		return "", fmt.Errorf("%w: %q (use 1h or 1d)", ErrUnknownView, s)
	}
	return v, nil
}

// SourceTimeframe is the API timeframe fetched to build v.
func (v View) SourceTimeframe() string { return viewSpecs[v].source }

// SourceStep is the bar length of SourceTimeframe.
func (v View) SourceStep() time.Duration { return viewSpecs[v].step }

// Granularity is the aggregation bucket for v.
func (v View) Granularity() model.Granularity { return viewSpecs[v].granularity }
