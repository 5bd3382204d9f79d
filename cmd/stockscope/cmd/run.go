package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"StockScope/internal/backtest"
	"StockScope/internal/config"
	"StockScope/internal/provider"
	"StockScope/internal/util"
)

var (
	runTickers string
	runStart   string
	runEnd     string
	runShort   int
	runLong    int
	runCapital float64
	runPolicy  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one backtest and print the report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := util.NewLogger(cfg.LogLevel)

		bt := cfg.Backtest
		if runTickers != "" {
			bt.Tickers = config.SplitTickers(runTickers)
		}
		if runShort != 0 {
			bt.ShortWindow = runShort
		}
		if runLong != 0 {
			bt.LongWindow = runLong
		}
		if runCapital != 0 {
			bt.InitialInvestment = runCapital
		}
		if runPolicy != "" {
			bt.Policy = runPolicy
		}

		end := time.Now().UTC().Truncate(24 * time.Hour)
		if runEnd != "" {
			if end, err = time.ParseInLocation("2006-01-02", runEnd, time.UTC); err != nil {
				return err
			}
		}
		start := end.AddDate(0, 0, -bt.LookbackDays)
		if runStart != "" {
			if start, err = time.ParseInLocation("2006-01-02", runStart, time.UTC); err != nil {
				return err
			}
		}

		fetcher := provider.NewYahooFetcher(cfg.DataSource.Proxy)
		barCache := openBarCache(cfg, log)
		defer barCache.Close()
		runner := backtest.NewRunner(fetcher, barCache, log)

		rep, err := runner.Run(context.Background(), bt, start, end)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

func init() {
	runCmd.Flags().StringVar(&runTickers, "tickers", "", "comma-separated ticker list")
	runCmd.Flags().StringVar(&runStart, "start", "", "start date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runEnd, "end", "", "end date (YYYY-MM-DD)")
	runCmd.Flags().IntVar(&runShort, "short", 0, "short moving-average window")
	runCmd.Flags().IntVar(&runLong, "long", 0, "long moving-average window")
	runCmd.Flags().Float64Var(&runCapital, "capital", 0, "initial investment")
	runCmd.Flags().StringVar(&runPolicy, "policy", "", "signal policy: level_count, crossover, crossover_gated")
}
