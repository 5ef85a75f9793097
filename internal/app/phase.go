package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"vitas-chart/internal/export"
	"vitas-chart/internal/httpapi"
	"vitas-chart/internal/market"
)

// RunFlow runs the configured mode until it finishes or SIGINT/SIGTERM arrives.
func RunFlow(d *Deps, srv *httpapi.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch d.Config.RunMode {
	case ModeServe:
		return srv.Run(ctx, d.Config.ListenAddr)
	case ModeOnce:
		if err := PrepareExport(d); err != nil {
			return err
		}
		runExportOnce(ctx, d)
		return nil
	case ModeExport:
		if err := PrepareExport(d); err != nil {
			return err
		}
		runExportLoop(ctx, d, func(now time.Time) time.Duration {
			return nextExportDelay(now, d.Config.RefreshInterval)
		})
		return nil
	default:
		return fmt.Errorf("unsupported RUN_MODE %q", d.Config.RunMode)
	}
}

func runExportOnce(ctx context.Context, d *Deps) {
	progressUpdates := make(chan export.ProgressUpdate, 256)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		export.RunProgressWriter(d.Config.ProgressPath(), progressUpdates)
	}()
	done := make(chan export.Done, 1)
	export.RunOneExport(ctx, ExportOptions(d), d.Tickers, d.Views, d.Config.ProgressPath(), progressUpdates, done)
	<-done
	close(progressUpdates)
	<-writerDone
}

// runExportLoop: trigger → run → done → wait → trigger
// delay decides how long to wait after each run.
func runExportLoop(ctx context.Context, d *Deps, delay func(time.Time) time.Duration) {
	progressUpdates := make(chan export.ProgressUpdate, 256)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		export.RunProgressWriter(d.Config.ProgressPath(), progressUpdates)
	}()

	trigger := make(chan export.Cmd, 1)
	done := make(chan export.Done, 1)
	runnerDone := make(chan struct{})
	opts := ExportOptions(d)

	go func() {
		defer close(runnerDone)
		for range trigger {
			export.RunOneExport(ctx, opts, d.Tickers, d.Views, d.Config.ProgressPath(), progressUpdates, done)
		}
	}()
	// runner gửi progress, phải dừng trước khi đóng progressUpdates
	defer func() {
		close(trigger)
		<-runnerDone
		close(progressUpdates)
		<-writerDone
	}()

	trigger <- export.Cmd{}

	for {
		select {
		case <-done:
			wait := delay(time.Now())
			nextRun := time.Now().Add(wait).In(market.Location)
			slog.Info("done, wait until next run", "wait", wait.Round(time.Second).String(), "until", nextRun.Format("2006-01-02 15:04"))
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				slog.Info("received signal, stopping", "restart_at", nextRun.Format("2006-01-02 15:04"))
				timer.Stop()
				return
			}
			trigger <- export.Cmd{}
		case <-ctx.Done():
			slog.Info("received signal, graceful shutdown")
			<-done
			return
		}
	}
}

// nextExportDelay waits for the next session open; while the market is open it
// refreshes every interval (never faster than the one-minute recheck).
func nextExportDelay(now time.Time, interval time.Duration) time.Duration {
	wait := market.UntilNextOpen(now)
	if market.IsMarketOpen(now) && interval > wait {
		wait = interval
	}
	return wait
}
