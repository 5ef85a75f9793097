// Package httpapi serves chart series to the dashboard over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vitas-chart/internal/chart"
	"vitas-chart/internal/market"
)

// SeriesBuilder builds one chart series. *chart.Builder implements it.
type SeriesBuilder interface {
	Build(ctx context.Context, ticker string, view chart.View) (*chart.Series, error)
}

// Server holds the gin engine and its dependencies.
type Server struct {
	builder SeriesBuilder
	log     *slog.Logger
	now     func() time.Time
	engine  *gin.Engine
}

// NewServer builds the router. Set gin mode before calling.
func NewServer(b SeriesBuilder, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{builder: b, log: log, now: time.Now}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	s.setupRoutes(r)
	s.engine = r
	return s
}

// Handler returns the http.Handler for the API.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealth)
	api := r.Group("/api")
	{
		api.GET("/chart/:ticker", s.handleChart)
		api.GET("/market/status", s.handleMarketStatus)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChart(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	view, err := chart.ParseView(c.DefaultQuery("view", string(chart.ViewHourly)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	series, err := s.builder.Build(c.Request.Context(), ticker, view)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, chart.ErrUnknownView) {
			status = http.StatusBadRequest
		}
		s.log.Error("chart request failed", "ticker", ticker, "view", string(view), "error", err)
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": series})
}

func (s *Server) handleMarketStatus(c *gin.Context) {
	now := s.now()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"open":           market.IsMarketOpen(now),
			"afterHours":     market.IsAfterHours(now),
			"untilNextOpenS": int64(market.UntilNextOpen(now) / time.Second),
			"localTime":      now.In(market.Location).Format(time.RFC3339),
		},
	})
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
