// Package api exposes the wavefront engine over HTTP: event listings,
// derived observer state, observation schedules, GeoJSON geometry and a
// websocket state stream. It enforces cross-cutting concerns (panic
// recovery, request ids, logging, security headers) before requests reach
// the domain handlers.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wavefront/internal/areas"
	"wavefront/internal/config"
	"wavefront/internal/types"
)

// Server wires the HTTP surface to the area provider and the engine
// configuration. Dependencies are injected so tests can substitute fakes.
type Server struct {
	cfg      *config.Config
	provider *areas.Provider
	logger   *slog.Logger
	clock    types.Clock

	router *chi.Mux
}

// NewServer performs a fail-fast check on its dependencies, builds the
// router and mounts all routes.
func NewServer(cfg *config.Config, provider *areas.Provider, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("area provider must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
		clock:    types.RealClock{},
		router:   chi.NewRouter(),
	}
	s.mountRoutes()

	return s, nil
}

// Handler returns the router as an http.Handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) mountRoutes() {
	r := s.router

	r.Use(s.Recoverer)
	r.Use(RequestID)
	r.Use(SecurityHeaders)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.HandleHealth)

	events := NewEventHandler(s.provider, s.engineConfig(), s.schedulerConfig(), s.clock, s.logger)
	r.Route("/v1/events", events.RegisterRoutes)
}

// engineConfig converts the process configuration into tracker tuning.
func (s *Server) engineConfig() EngineSettings {
	return EngineSettings{
		SoonWindow:    s.cfg.Engine.SoonWindow,
		BandTolerance: s.cfg.Engine.BandTolerance,
		MinBandHeight: s.cfg.Engine.MinBandHeight,
		MaxBandHeight: s.cfg.Engine.MaxBandHeight,
	}
}

func (s *Server) schedulerConfig() config.ObserveConfig {
	return s.cfg.Observe
}

// healthResponse is the JSON body for the health endpoint.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// HandleHealth reports process liveness and build identity. The endpoint is
// public and carries no dependency probes; the area provider's circuit
// breaker already guards the store path.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: s.cfg.Service,
		Version: s.cfg.Build.Version,
		Commit:  s.cfg.Build.Commit,
	})
}
