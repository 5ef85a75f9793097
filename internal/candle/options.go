// Package candle turns raw API records into canonical, sorted bars and folds
// them into hourly or daily-close candles. Every function here is pure: inputs
// are read-only and results are freshly allocated.
package candle

import "time"

// Observer receives diagnostics from the pipeline. *slog.Logger satisfies it.
type Observer interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopObserver struct{}

func (nopObserver) Debug(string, ...any) {}
func (nopObserver) Warn(string, ...any)  {}

// Option configures NormalizeSeries, Aggregate and HasEnoughData.
type Option func(*options)

type options struct {
	now        time.Time
	checkRange bool
	observer   Observer
	sourceStep time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		observer:   nopObserver{},
		sourceStep: time.Minute,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithNow enables the plausibility window check against now.
func WithNow(now time.Time) Option {
	return func(o *options) {
		o.now = now
		o.checkRange = true
	}
}

// WithObserver sets the diagnostics sink. A nil observer is ignored.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithSourceStep declares the interval of the input bars (default 1 minute).
// It only affects the completeness estimate.
func WithSourceStep(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sourceStep = d
		}
	}
}
