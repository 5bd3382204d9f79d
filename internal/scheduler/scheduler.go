package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockScope/internal/backtest"
	"StockScope/internal/config"
)

// Scheduler re-runs the configured watchlist backtest on a cron schedule and
// logs each ticker's latest signal. It keeps the bar cache warm so dashboard
// requests stay off the provider during market hours.
type Scheduler struct {
	cron   *cron.Cron
	runner *backtest.Runner
	cfg    *config.Config
	log    zerolog.Logger
	ctx    context.Context
}

// New creates a Scheduler.
func New(ctx context.Context, runner *backtest.Runner, cfg *config.Config, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		runner: runner,
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
	}
}

// Register wires the watchlist task.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule.WatchlistCron, s.RefreshWatchlist); err != nil {
		return fmt.Errorf("register watchlist task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Str("cron", s.cfg.Schedule.WatchlistCron).Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RefreshWatchlist runs the configured backtest once and logs the outcome.
func (s *Scheduler) RefreshWatchlist() {
	s.log.Info().Strs("tickers", s.cfg.Backtest.Tickers).Msg("refreshing watchlist")

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -s.cfg.Backtest.LookbackDays)

	rep, err := s.runner.Run(s.ctx, s.cfg.Backtest, start, end)
	if err != nil {
		s.log.Error().Err(err).Msg("watchlist refresh failed")
		return
	}
	for _, t := range rep.Tickers {
		s.log.Info().
			Str("ticker", t.Ticker).
			Str("signal", string(t.LatestSignal)).
			Float64("final_value", t.Portfolio.FinalValue).
			Msg("watchlist signal")
	}
	for _, u := range rep.Unavailable {
		s.log.Warn().Str("ticker", u.Ticker).Str("reason", u.Reason).Msg("watchlist ticker unavailable")
	}
}
