package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"StockScope/internal/calculator"
	"StockScope/internal/config"
	"StockScope/internal/model"
	"StockScope/internal/report"
)

const dayFormat = "2006-01-02"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleBacktest runs the full pipeline for the requested tickers and
// returns the multi-ticker report. Query parameters override the configured
// defaults; out-of-range values are clamped downstream, never rejected.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	bt, start, end, err := s.backtestParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.runner.Run(r.Context(), bt, start, end)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

// barsResponse carries the chart payload: normalized bars plus MA overlays
// aligned by index, null during the warm-up prefix.
type barsResponse struct {
	Ticker  string      `json:"ticker"`
	Bars    []model.Bar `json:"bars"`
	ShortMA []*float64  `json:"short_ma"`
	LongMA  []*float64  `json:"long_ma"`
}

func (s *Server) handleBars(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	bt, start, end, err := s.backtestParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bt = bt.Clamp()

	series, err := s.runner.LoadSeries(r.Context(), ticker, start, end)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	closes := series.Closes()
	shortMA, err := calculator.SMASeries(closes, bt.ShortWindow)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	longMA, err := calculator.SMASeries(closes, bt.LongWindow)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, barsResponse{
		Ticker:  series.Ticker,
		Bars:    series.Bars,
		ShortMA: report.Overlay(shortMA),
		LongMA:  report.Overlay(longMA),
	})
}

// backtestParams merges query parameters over the configured defaults.
func (s *Server) backtestParams(r *http.Request) (config.Backtest, time.Time, time.Time, error) {
	bt := s.cfg.Backtest
	q := r.URL.Query()

	if v := q.Get("tickers"); v != "" {
		bt.Tickers = config.SplitTickers(v)
	}
	if v := q.Get("short"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			bt.ShortWindow = n
		}
	}
	if v := q.Get("long"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			bt.LongWindow = n
		}
	}
	if v := q.Get("capital"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			bt.InitialInvestment = f
		}
	}
	if v := q.Get("policy"); v != "" {
		bt.Policy = v
	}
	if v := q.Get("threshold"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			bt.Threshold = f
		}
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -bt.LookbackDays)
	if v := q.Get("end"); v != "" {
		t, err := time.ParseInLocation(dayFormat, v, time.UTC)
		if err != nil {
			return bt, start, end, err
		}
		end = t
		start = end.AddDate(0, 0, -bt.LookbackDays)
	}
	if v := q.Get("start"); v != "" {
		t, err := time.ParseInLocation(dayFormat, v, time.UTC)
		if err != nil {
			return bt, start, end, err
		}
		start = t
	}
	if start.After(end) {
		return bt, start, end, fmt.Errorf("start %s is after end %s",
			start.Format(dayFormat), end.Format(dayFormat))
	}
	return bt, start, end, nil
}
