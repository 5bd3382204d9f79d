package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"StockScope/internal/backtest"
	"StockScope/internal/config"
)

// Server exposes the dashboard JSON API.
type Server struct {
	cfg    *config.Config
	runner *backtest.Runner
	log    zerolog.Logger
	http   *http.Server
}

// New builds the server and its routes.
func New(cfg *config.Config, runner *backtest.Runner, log zerolog.Logger) *Server {
	s := &Server{cfg: cfg, runner: runner, log: log}

	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(log))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/backtest", s.handleBacktest).Methods(http.MethodGet)
	api.HandleFunc("/bars/{ticker}", s.handleBars).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.cfg.Server.Addr).Msg("api server listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
