package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockScope/internal/backtest"
	"StockScope/internal/provider"
	"StockScope/internal/scheduler"
	"StockScope/internal/server"
	"StockScope/internal/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server and watchlist scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := util.NewLogger(cfg.LogLevel)
		log.Info().Msg("stockscope starting")

		fetcher := provider.NewYahooFetcher(cfg.DataSource.Proxy)
		log.Info().Str("source", fetcher.Name()).Msg("data source ready")

		barCache := openBarCache(cfg, log)
		defer barCache.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		runner := backtest.NewRunner(fetcher, barCache, log)

		sched := scheduler.New(ctx, runner, cfg, log)
		if err := sched.Register(); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if cfg.Schedule.RunOnStart {
			go sched.RefreshWatchlist()
		}

		srv := server.New(cfg, runner, log)
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
			log.Info().Msg("shutdown signal received, stopping")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
		log.Info().Msg("stockscope stopped")
		return nil
	},
}
