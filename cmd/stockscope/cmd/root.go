// Package cmd - stockscope CLI commands
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"StockScope/internal/cache"
	"StockScope/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "stockscope",
	Short: "StockScope - moving-average crossover dashboard backend",
	Long: `StockScope - moving-average crossover dashboard backend

Commands:
    serve    start the JSON API server and watchlist scheduler
    run      execute one backtest and print the report as JSON
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && verbose {
			fmt.Fprintln(os.Stderr, "no .env file found, using environment variables")
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// openBarCache selects the configured bar cache. A missing path or an
// unopenable database degrades to the noop cache rather than failing the
// command.
func openBarCache(cfg *config.Config, log zerolog.Logger) cache.Cache {
	if cfg.DataSource.CachePath == "" {
		return cache.NewNoopCache()
	}
	sc, err := cache.NewSQLiteCache(cfg.DataSource.CachePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("sqlite cache unavailable, running without cache")
		return cache.NewNoopCache()
	}
	return sc
}
