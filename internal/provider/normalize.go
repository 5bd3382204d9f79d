package provider

import (
	"math"
	"sort"
	"strconv"

	"StockScope/internal/model"
)

// Normalize cleans a raw provider series into an ordered, deduplicated
// model.Series. Bars with unparsable or non-positive price fields are
// dropped; an unparsable volume becomes zero. Duplicate dates keep the
// first occurrence.
func Normalize(ticker string, raw []RawBar) model.Series {
	bars := make([]model.Bar, 0, len(raw))
	for _, r := range raw {
		o, okO := coerceFloat(r.Open)
		h, okH := coerceFloat(r.High)
		l, okL := coerceFloat(r.Low)
		c, okC := coerceFloat(r.Close)
		if !okO || !okH || !okL || !okC {
			continue
		}
		bars = append(bars, model.Bar{
			Date:   r.Date,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: coerceVolume(r.Volume),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	deduped := bars[:0]
	var lastDay string
	for _, b := range bars {
		day := b.Date.Format("2006-01-02")
		if day == lastDay {
			continue
		}
		deduped = append(deduped, b)
		lastDay = day
	}

	return model.Series{Ticker: ticker, Bars: deduped}
}

// coerceFloat converts a loosely typed price field. Prices must be positive
// and finite to survive normalization.
func coerceFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

func coerceVolume(v interface{}) int64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int64(f)
}
