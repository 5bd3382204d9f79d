package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"StockScope/internal/model"
)

const dayFormat = "2006-01-02"

// SQLiteCache persists daily bars to a SQLite database, keyed by ticker and
// calendar day.
type SQLiteCache struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteCache opens (or creates) the database and runs migrations.
func NewSQLiteCache(dbPath string, log zerolog.Logger) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode: the API server reads while the scheduler refreshes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db, log: log}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite bar cache opened")
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			ticker  TEXT NOT NULL,
			date    TEXT NOT NULL,
			open    REAL NOT NULL,
			high    REAL NOT NULL,
			low     REAL NOT NULL,
			close   REAL NOT NULL,
			volume  INTEGER NOT NULL,
			PRIMARY KEY (ticker, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_date ON daily_bars(date)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the cached bars for the ticker within [start, end], ordered
// by date ascending. An empty result is a miss, not an error.
func (c *SQLiteCache) Load(ctx context.Context, ticker string, start, end time.Time) ([]model.Bar, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT date, open, high, low, close, volume
		 FROM daily_bars
		 WHERE ticker = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		ticker, start.Format(dayFormat), end.Format(dayFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("cache load: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var day string
		var b model.Bar
		if err := rows.Scan(&day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("cache scan: %w", err)
		}
		d, err := time.ParseInLocation(dayFormat, day, time.UTC)
		if err != nil {
			continue // skip unreadable rows rather than fail the lookup
		}
		b.Date = d
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Store writes the bars through, replacing any existing rows for the same days.
func (c *SQLiteCache) Store(ctx context.Context, ticker string, bars []model.Bar) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO daily_bars (ticker, date, open, high, low, close, volume)
		 VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("cache store: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, ticker, b.Date.Format(dayFormat),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("cache store: %w", err)
		}
	}
	return tx.Commit()
}

func (c *SQLiteCache) Close() error {
	c.log.Info().Msg("closing sqlite bar cache")
	return c.db.Close()
}
