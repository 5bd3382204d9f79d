package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"StockScope/internal/cache"
	"StockScope/internal/config"
	"StockScope/internal/model"
	"StockScope/internal/provider"
)

func testConfig(tickers ...string) config.Backtest {
	return config.Backtest{
		Tickers:           tickers,
		LookbackDays:      120,
		ShortWindow:       5,
		LongWindow:        20,
		InitialInvestment: 1000,
		Policy:            "crossover",
		Threshold:         0.001,
	}
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func TestRun_BatchSurvivesOneUnavailableTicker(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	fetcher := &provider.MockFetcher{Data: map[string][]provider.RawBar{
		"AAA": provider.RawBarsFromCloses(start, risingCloses(60)),
		"BBB": provider.RawBarsFromCloses(start, risingCloses(60)),
		// CCC missing on purpose
	}}
	r := NewRunner(fetcher, cache.NewNoopCache(), zerolog.Nop())

	rep, err := r.Run(context.Background(), testConfig("AAA", "BBB", "CCC"), start, start.AddDate(0, 0, 60))
	if err != nil {
		t.Fatalf("batch must not fail: %v", err)
	}
	if len(rep.Tickers) != 2 {
		t.Fatalf("expected exactly 2 successful tickers, got %d", len(rep.Tickers))
	}
	if len(rep.Unavailable) != 1 || rep.Unavailable[0].Ticker != "CCC" {
		t.Fatalf("expected one unavailability notice for CCC, got %+v", rep.Unavailable)
	}
	if rep.Aggregate.TotalInvestment != 2000 {
		t.Errorf("aggregate must omit the failed ticker, got investment %v", rep.Aggregate.TotalInvestment)
	}
}

func TestRun_RisingSeriesBuysAndCompounds(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	fetcher := &provider.MockFetcher{Data: map[string][]provider.RawBar{
		"AAA": provider.RawBarsFromCloses(start, risingCloses(60)),
	}}
	r := NewRunner(fetcher, cache.NewNoopCache(), zerolog.Nop())

	rep, err := r.Run(context.Background(), testConfig("AAA"), start, start.AddDate(0, 0, 60))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := rep.Tickers[0]
	if tr.LatestSignal != model.SignalHold {
		t.Errorf("monotonic uptrend should still be holding, got %s", tr.LatestSignal)
	}
	if len(tr.History) == 0 || tr.History[0].Signal != model.SignalBuy {
		t.Fatalf("expected a BUY in the history, got %+v", tr.History)
	}
	if tr.Portfolio.FinalValue <= tr.Portfolio.InitialCapital {
		t.Errorf("uptrend while LONG must grow equity, got %v", tr.Portfolio.FinalValue)
	}
	if !tr.Portfolio.ROIDefined {
		t.Error("expected a defined ROI")
	}
}

func TestRun_ClampsDegenerateWindows(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	fetcher := &provider.MockFetcher{Data: map[string][]provider.RawBar{
		"AAA": provider.RawBarsFromCloses(start, risingCloses(260)),
	}}
	r := NewRunner(fetcher, cache.NewNoopCache(), zerolog.Nop())

	bt := testConfig("AAA")
	bt.ShortWindow = 90
	bt.LongWindow = 30 // short >= long: must not crash, degrades
	rep, err := r.Run(context.Background(), bt, start, start.AddDate(0, 0, 260))
	if err != nil {
		t.Fatalf("degenerate windows must not fail the run: %v", err)
	}
	if len(rep.Tickers) != 1 {
		t.Fatalf("expected one result, got %d", len(rep.Tickers))
	}
}

func TestRun_AllTickersEmpty(t *testing.T) {
	fetcher := &provider.MockFetcher{Data: map[string][]provider.RawBar{}}
	r := NewRunner(fetcher, cache.NewNoopCache(), zerolog.Nop())

	rep, err := r.Run(context.Background(), testConfig("AAA", "BBB"), time.Now().AddDate(0, 0, -30), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Tickers) != 0 || len(rep.Unavailable) != 2 {
		t.Fatalf("expected 0 results and 2 notices, got %d/%d", len(rep.Tickers), len(rep.Unavailable))
	}
	if rep.Aggregate.ROIDefined {
		t.Error("aggregate over nothing must leave ROI undefined")
	}
}

func TestRun_UnknownPolicy(t *testing.T) {
	fetcher := &provider.MockFetcher{}
	r := NewRunner(fetcher, cache.NewNoopCache(), zerolog.Nop())
	bt := testConfig("AAA")
	bt.Policy = "momentum"
	if _, err := r.Run(context.Background(), bt, time.Now().AddDate(0, 0, -30), time.Now()); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestLoadSeries_ServesFromWarmCache(t *testing.T) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -9)

	bars := make([]model.Bar, 10)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.Bar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1}
	}

	c, err := cache.NewSQLiteCache(t.TempDir()+"/bars.db", zerolog.Nop())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer c.Close()
	if err := c.Store(context.Background(), "AAA", bars); err != nil {
		t.Fatalf("store: %v", err)
	}

	// The fetcher would fail: the series must come from the cache.
	r := NewRunner(&provider.MockFetcher{Err: provider.ErrUnavailable}, c, zerolog.Nop())
	series, err := r.LoadSeries(context.Background(), "AAA", start, end)
	if err != nil {
		t.Fatalf("expected cache hit, got error: %v", err)
	}
	if series.Len() != 10 {
		t.Errorf("expected 10 cached bars, got %d", series.Len())
	}
}

func TestLoadSeries_PartialCacheFallsThroughToFetcher(t *testing.T) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -59)

	// Warm the cache with only the most recent 10 days of a 60-day request.
	tail := make([]model.Bar, 10)
	for i := range tail {
		c := 100 + float64(i)
		tail[i] = model.Bar{Date: end.AddDate(0, 0, i-9), Open: c, High: c, Low: c, Close: c, Volume: 1}
	}

	c, err := cache.NewSQLiteCache(t.TempDir()+"/bars.db", zerolog.Nop())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer c.Close()
	if err := c.Store(context.Background(), "AAA", tail); err != nil {
		t.Fatalf("store: %v", err)
	}

	fetcher := &provider.MockFetcher{Data: map[string][]provider.RawBar{
		"AAA": provider.RawBarsFromCloses(start, risingCloses(60)),
	}}
	r := NewRunner(fetcher, c, zerolog.Nop())

	series, err := r.LoadSeries(context.Background(), "AAA", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 60 {
		t.Fatalf("a tail-only cache must not truncate the history: expected 60 bars, got %d", series.Len())
	}
}
