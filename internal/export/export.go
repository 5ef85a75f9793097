// Package export chạy các lượt xuất chart series cho watchlist: mỗi job là một
// (ticker, view), chạy song song qua worker pool, gom kết quả qua fan-in.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"vitas-chart/internal/chart"
	"vitas-chart/internal/market"
	"vitas-chart/internal/provider/vitas"
	"vitas-chart/internal/saver"
	"vitas-chart/internal/slogx"
)

const defaultHeartbeat = 30 * time.Second

// Job represents one export unit (ticker + view)
type Job struct {
	Ticker string
	View   chart.View
}

// Key identifies the job in the progress file.
func (j Job) Key() string { return j.Ticker + "/" + string(j.View) }

// JobResult is sent by workers for fan-in
type JobResult struct {
	Ok     bool
	Ticker string
	View   chart.View
	Path   string
	Reason string
	Bars   int
}

// Cmd triggers an export run
type Cmd struct{}

// Done signals export completion
type Done struct{}

// SeriesBuilder builds one chart series. *chart.Builder implements it.
type SeriesBuilder interface {
	Build(ctx context.Context, ticker string, view chart.View) (*chart.Series, error)
}

// LogRouter is implemented by providers that can route request logs into the fan-in logger.
type LogRouter interface {
	SetLogFunc(fn vitas.LogFunc)
}

// Options configures RunParallel.
type Options struct {
	Builder   SeriesBuilder
	Saver     saver.SeriesSaver
	OutDir    string
	Workers   int
	Heartbeat time.Duration
	Logs      LogRouter // optional
	LogOut    io.Writer // fan-in log destination, default stdout
}

// Summary is the outcome of one RunParallel call.
type Summary struct {
	Success     int
	Failed      int
	SuccessList []string
	FailedList  []failedEntry
	Bars        map[string]int // per ticker
}

// BuildJobs returns one job per ticker and view, skipping those whose last export
// already covers a closed week that cannot change before the next session.
func BuildJobs(tickers []string, views []chart.View, progressPath string, now time.Time) []Job {
	m := loadProgress(progressPath)
	var jobs []Job
	for _, t := range tickers {
		for _, v := range views {
			j := Job{Ticker: t, View: v}
			if e, ok := m[j.Key()]; ok && e.final(now) {
				continue
			}
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// FilePath returns {outDir}/{TICKER}/{TICKER}_{view}_{startDay}_to_{endDay}.{ext}.
func FilePath(outDir string, s *chart.Series, ext string) string {
	start := strconv.Itoa(market.DayKey(s.Window.StartMs))
	end := strconv.Itoa(market.DayKey(s.Window.EndMs))
	name := fmt.Sprintf("%s_%s_%s_to_%s.%s", s.Ticker, s.View, start, end, ext)
	return filepath.Join(outDir, s.Ticker, name)
}

// RunOneExport runs one export cycle and sends done when finished.
func RunOneExport(
	ctx context.Context,
	opts Options,
	tickers []string,
	views []chart.View,
	progressPath string,
	progressUpdates chan<- ProgressUpdate,
	done chan<- Done,
) {
	jobs := BuildJobs(tickers, views, progressPath, time.Now())
	if len(jobs) == 0 {
		slog.Info("no jobs to export, skip")
		done <- Done{}
		return
	}
	if skipped := len(tickers)*len(views) - len(jobs); skipped > 0 {
		slog.Info("series final for the week, jobs to export", "skipped", skipped, "jobs", len(jobs))
	} else {
		slog.Info("jobs to export", "jobs", len(jobs))
	}

	sum := RunParallel(ctx, opts, jobs, progressUpdates)
	if len(sum.SuccessList) > 0 || len(sum.FailedList) > 0 {
		if err := writeRunReport(opts.OutDir, sum.SuccessList, sum.FailedList); err != nil {
			slog.Warn("could not write run report", "error", err)
		} else {
			slog.Info("run report saved", "success", len(sum.SuccessList), "failed", len(sum.FailedList))
		}
	}
	slog.Info("export done", "success", sum.Success, "failed", sum.Failed)
	done <- Done{}
}

func runJobResultCollector(results <-chan JobResult, mu *sync.Mutex, sum *Summary) {
	for r := range results {
		mu.Lock()
		if r.Ok {
			sum.Success++
			sum.SuccessList = appendSuccess(sum.SuccessList, r.Ticker)
			sum.Bars[r.Ticker] += r.Bars
		} else {
			sum.Failed++
			sum.FailedList = append(sum.FailedList, failedEntry{Ticker: r.Ticker, View: string(r.View), Reason: r.Reason})
		}
		mu.Unlock()
	}
}

// RunParallel exports jobs with opts.Workers workers. Cancelling ctx stops workers
// from taking new jobs; in-flight requests see the cancellation through ctx.
func RunParallel(ctx context.Context, opts Options, jobs []Job, progressUpdates chan<- ProgressUpdate) Summary {
	sum := Summary{Bars: make(map[string]int)}
	if opts.Builder == nil || opts.Saver == nil {
		slog.Error("RunParallel needs a builder and a saver")
		return sum
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	heartbeat := opts.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	out := opts.LogOut
	if out == nil {
		out = os.Stdout
	}

	logs := make(chan string, 2048)
	logger := slogx.NewChanLogger(logs)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(out, logs)
	}()
	hbCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Logs != nil {
		opts.Logs.SetLogFunc(func(msg string) { logger.Info(msg) })
	}
	defer func() {
		if opts.Logs != nil {
			opts.Logs.SetLogFunc(nil)
		}
		close(logs)
		logWg.Wait()
	}()

	pending := make(chan Job, len(jobs))
	for _, j := range jobs {
		pending <- j
	}
	close(pending)

	results := make(chan JobResult, len(jobs)+64)
	var mu sync.Mutex
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		runJobResultCollector(results, &mu, &sum)
	}()

	var hbWg sync.WaitGroup
	hbWg.Add(1)
	go func() {
		defer hbWg.Done()
		runHeartbeat(hbCtx, heartbeat, len(jobs), &mu, &sum, logger)
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-pending:
					if !ok {
						return
					}
					results <- exportOne(ctx, opts, job, logger, progressUpdates)
				}
			}
		}()
	}
	wg.Wait()
	close(results)
	resWg.Wait()
	cancel()
	// heartbeat ghi vào logs, phải dừng hẳn trước khi close(logs)
	hbWg.Wait()

	var total int
	for _, n := range sum.Bars {
		total += n
	}
	logger.Info("summary", "total_bars", total, "success", sum.Success, "failed", sum.Failed)
	if len(sum.Bars) > 0 {
		tickers := make([]string, 0, len(sum.Bars))
		for t := range sum.Bars {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		for _, t := range tickers {
			logger.Info("summary ticker", "ticker", t, "bars", sum.Bars[t])
		}
	}
	if len(sum.FailedList) > 0 {
		logger.Info("summary failed", "count", len(sum.FailedList), "reasons", joinFailedReasons(sum.FailedList))
	}
	return sum
}

func exportOne(
	ctx context.Context,
	opts Options,
	job Job,
	logger *slog.Logger,
	progressUpdates chan<- ProgressUpdate,
) JobResult {
	fail := func(reason string) JobResult {
		logger.Error("export fail", "ticker", job.Ticker, "view", string(job.View), "reason", reason)
		return JobResult{Ok: false, Ticker: job.Ticker, View: job.View, Reason: reason}
	}

	s, err := opts.Builder.Build(ctx, job.Ticker, job.View)
	if err != nil {
		return fail(err.Error())
	}
	if len(s.Bars) == 0 {
		return fail("no data")
	}

	path := FilePath(opts.OutDir, s, opts.Saver.Extension())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fail(err.Error())
	}
	if err := opts.Saver.Save(s.Bars, path); err != nil {
		return fail(fmt.Sprintf("save %s: %v", path, err))
	}

	n := len(s.Bars)
	logger.Info("export ok", "ticker", job.Ticker, "view", string(job.View), "bars", n,
		"incomplete", s.Incomplete, "window", string(s.Window.Source), "path", path)
	if progressUpdates != nil {
		u := ProgressUpdate{Key: job.Key(), Entry: ProgressEntry{
			WindowStart: s.Window.StartMs,
			WindowEnd:   s.Window.EndMs,
			ExportedAt:  s.BuiltAt,
			Bars:        n,
		}}
		select {
		case progressUpdates <- u:
		default:
			logger.Warn("progress channel full, skip update", "ticker", job.Ticker)
		}
	}
	return JobResult{Ok: true, Ticker: job.Ticker, View: job.View, Path: path, Bars: n}
}
