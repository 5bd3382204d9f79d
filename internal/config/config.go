package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		Proxy     string `yaml:"proxy"`
		CachePath string `yaml:"cache_path"`
	} `yaml:"data_source"`
	Backtest Backtest `yaml:"backtest"`
	Schedule struct {
		WatchlistCron string `yaml:"watchlist_cron"`
		RunOnStart    bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	LogLevel string `yaml:"log_level"`
}

// Backtest is the immutable parameter set for one backtest run. It is passed
// by value into the pipeline; nothing in the core mutates it.
type Backtest struct {
	Tickers           []string `yaml:"tickers"`
	LookbackDays      int      `yaml:"lookback_days"`
	ShortWindow       int      `yaml:"short_window"`
	LongWindow        int      `yaml:"long_window"`
	InitialInvestment float64  `yaml:"initial_investment"`
	Policy            string   `yaml:"policy"`
	Threshold         float64  `yaml:"threshold"`
}

// Operational bounds. Windows and capital outside these ranges are clamped,
// never rejected: a misconfigured run degrades, it does not fail.
const (
	MinShortWindow = 5
	MaxShortWindow = 100
	MinLongWindow  = 20
	MaxLongWindow  = 200
	MinInvestment  = 100
	MaxInvestment  = 1_000_000
)

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCKSCOPE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STOCKSCOPE_TICKERS"); v != "" {
		cfg.Backtest.Tickers = SplitTickers(v)
	}
	if v := os.Getenv("STOCKSCOPE_CACHE_PATH"); v != "" {
		cfg.DataSource.CachePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("STOCKSCOPE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STOCKSCOPE_INVESTMENT"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Backtest.InitialInvestment = amount
		}
	}
	if v := os.Getenv("STOCKSCOPE_WATCHLIST_CRON"); v != "" {
		cfg.Schedule.WatchlistCron = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8099"
	}
	if len(cfg.Backtest.Tickers) == 0 {
		cfg.Backtest.Tickers = []string{"AAPL"}
	}
	if cfg.Backtest.LookbackDays == 0 {
		cfg.Backtest.LookbackDays = 365
	}
	if cfg.Backtest.ShortWindow == 0 {
		cfg.Backtest.ShortWindow = 20
	}
	if cfg.Backtest.LongWindow == 0 {
		cfg.Backtest.LongWindow = 50
	}
	if cfg.Backtest.InitialInvestment == 0 {
		cfg.Backtest.InitialInvestment = 10000
	}
	if cfg.Backtest.Policy == "" {
		cfg.Backtest.Policy = "crossover"
	}
	if cfg.Backtest.Threshold == 0 {
		cfg.Backtest.Threshold = 0.001
	}
	if cfg.Schedule.WatchlistCron == "" {
		cfg.Schedule.WatchlistCron = "0 0 22 * * 1-5"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks the fields that cannot be repaired by clamping.
func (c *Config) Validate() error {
	if len(c.Backtest.Tickers) == 0 {
		return fmt.Errorf("backtest.tickers must not be empty")
	}
	if c.Backtest.LookbackDays <= 0 {
		return fmt.Errorf("backtest.lookback_days must be positive")
	}
	switch c.Backtest.Policy {
	case "level_count", "crossover", "crossover_gated":
	default:
		return fmt.Errorf("backtest.policy: unknown policy %q", c.Backtest.Policy)
	}
	return nil
}

// Clamp forces the backtest parameters into the operational bounds and
// returns a copy. short >= long is repaired by pushing long above short so a
// degenerate configuration still produces a non-error run.
func (b Backtest) Clamp() Backtest {
	b.ShortWindow = clampInt(b.ShortWindow, MinShortWindow, MaxShortWindow)
	b.LongWindow = clampInt(b.LongWindow, MinLongWindow, MaxLongWindow)
	if b.ShortWindow >= b.LongWindow {
		b.LongWindow = b.ShortWindow + 1
	}
	if b.InitialInvestment < MinInvestment {
		b.InitialInvestment = MinInvestment
	}
	if b.InitialInvestment > MaxInvestment {
		b.InitialInvestment = MaxInvestment
	}
	if b.Threshold <= 0 {
		b.Threshold = 0.001
	}
	return b
}

// SplitTickers parses a comma-separated ticker list, trimming whitespace and
// dropping empty entries.
func SplitTickers(s string) []string {
	parts := strings.Split(s, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToUpper(strings.TrimSpace(p))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
