package model

import "time"

// Bar represents a single daily OHLCV candlestick.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series holds the normalized daily bars for one ticker, ordered by date
// ascending with no duplicate dates.
type Series struct {
	Ticker string
	Bars   []Bar
}

// Len returns the number of bars in the series.
func (s *Series) Len() int { return len(s.Bars) }

// Closes extracts the closing prices aligned to the bars by index.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// IndexByDate builds a date→index lookup, keyed by calendar day.
func (s *Series) IndexByDate() map[string]int {
	idx := make(map[string]int, len(s.Bars))
	for i, b := range s.Bars {
		idx[b.Date.Format("2006-01-02")] = i
	}
	return idx
}
