package backtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"StockScope/internal/cache"
	"StockScope/internal/config"
	"StockScope/internal/model"
	"StockScope/internal/portfolio"
	"StockScope/internal/provider"
	"StockScope/internal/report"
	"StockScope/internal/strategy"
)

// staleSlack is how far behind the requested end date the newest cached bar
// may lag before we go back to the provider. Weekends and holidays mean the
// last trading day is routinely a few days old.
const staleSlack = 4 * 24 * time.Hour

// TickerReport is the per-ticker output handed to the presentation layer.
type TickerReport struct {
	Ticker       string                `json:"ticker"`
	LatestSignal model.SignalKind      `json:"latest_signal"`
	History      []report.Row          `json:"history"`
	Portfolio    model.PortfolioResult `json:"portfolio"`
}

// Unavailable names a ticker that was skipped and why.
type Unavailable struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// Report is the full multi-ticker backtest result.
type Report struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Tickers     []TickerReport        `json:"tickers"`
	Unavailable []Unavailable         `json:"unavailable"`
	Aggregate   model.AggregateResult `json:"aggregate"`
}

// Runner wires the provider, the bar cache, and the core pipeline.
type Runner struct {
	fetcher provider.Fetcher
	cache   cache.Cache
	log     zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(fetcher provider.Fetcher, c cache.Cache, log zerolog.Logger) *Runner {
	return &Runner{fetcher: fetcher, cache: c, log: log}
}

// Run executes one backtest for every ticker in the config over [start, end].
// Tickers are independent, so each runs in its own goroutine and fans in to
// the report. A failed ticker becomes an Unavailable entry; it never aborts
// the batch, and the aggregate only sums tickers that succeeded.
func (r *Runner) Run(ctx context.Context, bt config.Backtest, start, end time.Time) (*Report, error) {
	clamped := bt.Clamp()
	if clamped.ShortWindow != bt.ShortWindow || clamped.LongWindow != bt.LongWindow {
		r.log.Warn().
			Int("short", bt.ShortWindow).Int("long", bt.LongWindow).
			Int("clamped_short", clamped.ShortWindow).Int("clamped_long", clamped.LongWindow).
			Msg("window configuration clamped to operational bounds")
	}

	policy, err := strategy.ParsePolicy(clamped.Policy, clamped.Threshold)
	if err != nil {
		return nil, err
	}
	params := strategy.Params{
		ShortWindow: clamped.ShortWindow,
		LongWindow:  clamped.LongWindow,
		Capital:     clamped.InitialInvestment,
		Policy:      policy,
	}

	type slot struct {
		rep  *TickerReport
		fail *Unavailable
	}
	slots := make([]slot, len(clamped.Tickers))

	var wg sync.WaitGroup
	for i, ticker := range clamped.Tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			rep, err := r.runTicker(ctx, ticker, start, end, params)
			if err != nil {
				r.log.Warn().Str("ticker", ticker).Err(err).Msg("ticker skipped")
				slots[i] = slot{fail: &Unavailable{Ticker: ticker, Reason: err.Error()}}
				return
			}
			slots[i] = slot{rep: rep}
		}(i, ticker)
	}
	wg.Wait()

	out := &Report{GeneratedAt: time.Now().UTC()}
	var results []model.PortfolioResult
	for _, s := range slots {
		if s.fail != nil {
			out.Unavailable = append(out.Unavailable, *s.fail)
			continue
		}
		out.Tickers = append(out.Tickers, *s.rep)
		results = append(results, s.rep.Portfolio)
	}
	out.Aggregate = portfolio.Aggregate(results)
	return out, nil
}

// runTicker executes the Normalizer→MA→SignalEngine→Simulator→Reporter chain
// for one ticker. Stages run strictly in sequence; the engine sees each bar
// exactly once, in date order.
func (r *Runner) runTicker(ctx context.Context, ticker string, start, end time.Time, params strategy.Params) (*TickerReport, error) {
	series, err := r.LoadSeries(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}

	out, err := strategy.Evaluate(series, params)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", ticker, err)
	}

	res := portfolio.Result(ticker, params.Capital, out.FinalValue)
	if !out.ValueDefined {
		res.ROIDefined = false
	}

	return &TickerReport{
		Ticker:       ticker,
		LatestSignal: out.Latest,
		History:      report.History(series, out),
		Portfolio:    res,
	}, nil
}

// LoadSeries returns the normalized series for a ticker, consulting the bar
// cache before the provider and writing fetched bars through. An empty
// series after normalization is reported as unavailable.
func (r *Runner) LoadSeries(ctx context.Context, ticker string, start, end time.Time) (model.Series, error) {
	cached, err := r.cache.Load(ctx, ticker, start, end)
	if err != nil {
		r.log.Warn().Str("ticker", ticker).Err(err).Msg("bar cache read failed")
	}
	// A hit must cover the whole request: the newest bar close to end AND
	// the oldest bar close to start. A cache warmed by a shorter earlier
	// run must fall through to the provider, not truncate the history.
	if len(cached) > 0 &&
		end.Sub(cached[len(cached)-1].Date) <= staleSlack &&
		cached[0].Date.Sub(start) <= staleSlack {
		return model.Series{Ticker: ticker, Bars: cached}, nil
	}

	raw, err := r.fetcher.FetchDailyBars(ctx, ticker, start, end)
	if err != nil {
		return model.Series{}, fmt.Errorf("%w: %s: %v", provider.ErrUnavailable, ticker, err)
	}
	series := provider.Normalize(ticker, raw)
	if series.Len() == 0 {
		return model.Series{}, fmt.Errorf("%w: %s: empty series after normalization", provider.ErrUnavailable, ticker)
	}

	if err := r.cache.Store(ctx, ticker, series.Bars); err != nil {
		r.log.Warn().Str("ticker", ticker).Err(err).Msg("bar cache write failed")
	}
	return series, nil
}
