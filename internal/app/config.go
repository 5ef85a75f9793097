package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"vitas-chart/internal/chart"
	"vitas-chart/internal/provider/vitas"
	"vitas-chart/internal/saver"
)

// Run modes.
const (
	ModeExport = "export" // export, chờ phiên tiếp theo, lặp lại
	ModeOnce   = "once"
	ModeServe  = "serve"
)

// VitasConfig is the backend API section (VITAS_ prefix).
type VitasConfig struct {
	APIURL            string        `env:"API_URL" envDefault:"http://localhost:3333/api"`
	APITimeout        time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	RequestsPerMinute int           `env:"REQUESTS_PER_MINUTE" envDefault:"120"`
}

// Config holds application configuration from env
type Config struct {
	Profile         string        `env:"PROFILE"`
	Vitas           VitasConfig   `envPrefix:"VITAS_"`
	WatchlistFile   string        `env:"WATCHLIST_FILE" envDefault:"watchlist.yaml"`
	Tickers         []string      `env:"TICKERS" envSeparator:","`
	Views           []string      `env:"VIEWS" envSeparator:"," envDefault:"1h,1d"`
	FetchLimit      int           `env:"FETCH_LIMIT" envDefault:"5000"`
	LookbackDays    int           `env:"LOOKBACK_DAYS" envDefault:"21"`
	DataDir         string        `env:"DATA_DIR" envDefault:"data"`
	SaveFormat      string        `env:"SAVE_FORMAT"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"` // debug | info | warn | error
	RunMode         string        `env:"RUN_MODE" envDefault:"export"`
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":8080"`
	Workers         int           `env:"WORKERS" envDefault:"4"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"1m"`
}

// LoadConfig reads .env (if present) then the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.SaveFormat == "" {
		cfg.SaveFormat = saveFormatForProfile(cfg.Profile)
	}
	cfg.RunMode = strings.ToLower(strings.TrimSpace(cfg.RunMode))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isDevProfile(profile string) bool {
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "dev", "development":
		return true
	}
	return false
}

func saveFormatForProfile(profile string) string {
	if isDevProfile(profile) {
		return "csv"
	}
	return "parquet"
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.ChartViews(); err != nil {
		errs = append(errs, fmt.Errorf("VIEWS: %w", err))
	}
	if saver.NewSeriesSaver(c.SaveFormat) == nil {
		errs = append(errs, fmt.Errorf("unsupported SAVE_FORMAT %q (use: %s)", c.SaveFormat, strings.Join(saver.Formats, ", ")))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("WORKERS must be >= 1, got %d", c.Workers))
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval))
	}
	switch c.RunMode {
	case ModeExport, ModeOnce, ModeServe:
	default:
		errs = append(errs, fmt.Errorf("unsupported RUN_MODE %q (use: export, once, serve)", c.RunMode))
	}
	return errors.Join(errs...)
}

// ChartViews parses Views.
func (c *Config) ChartViews() ([]chart.View, error) {
	if len(c.Views) == 0 {
		return nil, errors.New("no views configured")
	}
	out := make([]chart.View, 0, len(c.Views))
	for _, s := range c.Views {
		v, err := chart.ParseView(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// VitasClientConfig maps the VITAS_ section onto the client config.
func (c *Config) VitasClientConfig() vitas.Config {
	return vitas.Config{
		BaseURL:           c.Vitas.APIURL,
		Timeout:           c.Vitas.APITimeout,
		RequestsPerMinute: c.Vitas.RequestsPerMinute,
	}
}

// SaveBaseDir returns data/Vitas
func (c *Config) SaveBaseDir() string {
	return filepath.Join(c.DataDir, "Vitas")
}

// ProgressPath returns path to .lastexport.json
func (c *Config) ProgressPath() string {
	return filepath.Join(c.SaveBaseDir(), ".lastexport.json")
}
