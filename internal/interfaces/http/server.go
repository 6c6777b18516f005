// Package http serves the read-only rankings API: current team and player
// rankings computed on demand, plus health and Prometheus endpoints.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/engine"
	"github.com/legionffl/cpr/internal/metrics"
	"github.com/legionffl/cpr/internal/model"
	"github.com/legionffl/cpr/internal/persistence"
)

// SnapshotSource provides league snapshots for on-demand runs.
type SnapshotSource interface {
	Snapshot(ctx context.Context, leagueID string, season int) (*model.Snapshot, error)
}

// RunStore persists completed runs and serves them back. Optional; a nil
// store disables persistence without changing API behavior.
type RunStore interface {
	SaveRun(ctx context.Context, run persistence.Run) (string, error)
	LatestRun(ctx context.Context, leagueID string, season int, kind persistence.RunKind) (*persistence.Run, error)
	PruneRuns(ctx context.Context, retention time.Duration) (int64, error)
}

// Config holds server settings and collaborators.
type Config struct {
	Addr         string
	LeagueID     string
	Season       int
	Engine       *engine.Engine
	Source       SnapshotSource
	Store        RunStore
	Metrics      *metrics.Metrics
	Retention    time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server is the rankings HTTP server.
type Server struct {
	router    *mux.Router
	server    *http.Server
	engine    *engine.Engine
	source    SnapshotSource
	store     RunStore
	metrics   *metrics.Metrics
	retention time.Duration
	league    string
	season    int
}

// NewServer assembles the router and middleware chain.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	s := &Server{
		router:    mux.NewRouter(),
		engine:    cfg.Engine,
		source:    cfg.Source,
		store:     cfg.Store,
		metrics:   cfg.Metrics,
		retention: cfg.Retention,
		league:    cfg.LeagueID,
		season:    cfg.Season,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.observabilityMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/rankings/teams", s.handleTeamRankings).Methods(http.MethodGet)
	api.HandleFunc("/rankings/players", s.handlePlayerRankings).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// ListenAndServe runs the server until the context is canceled, then
// drains connections.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.server.Addr).Msg("rankings API listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down rankings API")
		return s.server.Shutdown(shutdownCtx)
	}
}
