package cache

import (
	"context"
	"time"

	"StockScope/internal/model"
)

// Cache stores normalized daily bars so repeated dashboard requests do not
// hammer the provider. It caches provider data only, never run results.
type Cache interface {
	Load(ctx context.Context, ticker string, start, end time.Time) ([]model.Bar, error)
	Store(ctx context.Context, ticker string, bars []model.Bar) error
	Close() error
}

// NoopCache is used when no cache path is configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Load(context.Context, string, time.Time, time.Time) ([]model.Bar, error) {
	return nil, nil
}
func (n *NoopCache) Store(context.Context, string, []model.Bar) error { return nil }
func (n *NoopCache) Close() error                                     { return nil }
