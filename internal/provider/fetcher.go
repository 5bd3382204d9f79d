package provider

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a ticker whose data could not be obtained: provider
// failure, unknown symbol, or an empty series. The batch recovers locally by
// skipping the ticker; it never aborts.
var ErrUnavailable = errors.New("market data unavailable")

// RawBar is one provider row before normalization. Price and volume fields
// arrive as loosely typed JSON values and must be coerced.
type RawBar struct {
	Date   time.Time
	Open   interface{}
	High   interface{}
	Low    interface{}
	Close  interface{}
	Volume interface{}
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]RawBar, error)
	Name() string
}
