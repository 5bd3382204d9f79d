package provider

import (
	"context"
	"time"
)

// MockFetcher returns controllable fixed data for development and testing.
// Data maps a ticker to its raw bars; a missing ticker, an empty slice, or a
// configured error reproduces the unavailable path.
type MockFetcher struct {
	Data map[string][]RawBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, ticker string, _, _ time.Time) ([]RawBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars, ok := m.Data[ticker]
	if !ok {
		return nil, ErrUnavailable
	}
	return bars, nil
}

// RawBarsFromCloses builds a synthetic daily raw series from closing prices,
// one bar per calendar day starting at start.
func RawBarsFromCloses(start time.Time, closes []float64) []RawBar {
	bars := make([]RawBar, len(closes))
	for i, c := range closes {
		bars[i] = RawBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c * 0.999,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}
