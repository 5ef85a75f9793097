package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WatchEntry is one symbol of watchlist.yaml.
type WatchEntry struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name,omitempty"`
}

// WatchlistFile is the watchlist.yaml document.
type WatchlistFile struct {
	Watchlist []WatchEntry `yaml:"watchlist"`
}

// ErrEmptyWatchlist is returned when no ticker is configured.
var ErrEmptyWatchlist = errors.New("watchlist is empty")

// LoadWatchlist reads symbols from a YAML watchlist.
func LoadWatchlist(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	var wl WatchlistFile
	if err := yaml.Unmarshal(b, &wl); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", path, err)
	}
	symbols := make([]string, len(wl.Watchlist))
	for i, e := range wl.Watchlist {
		symbols[i] = e.Symbol
	}
	return normalizeTickers(symbols)
}

// LoadTickers returns TICKERS when set, else the watchlist file.
func LoadTickers(cfg *Config) ([]string, error) {
	if len(cfg.Tickers) > 0 {
		return normalizeTickers(cfg.Tickers)
	}
	return LoadWatchlist(cfg.WatchlistFile)
}

// normalizeTickers upper-cases, trims and de-duplicates, keeping first-seen order.
func normalizeTickers(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		t := strings.ToUpper(strings.TrimSpace(s))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, ErrEmptyWatchlist
	}
	return out, nil
}
