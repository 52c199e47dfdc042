// Package server implements the public HTTP API of the keiba optimizer.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-optimizer/internal/config"
	"github.com/yourusername/keiba-optimizer/internal/datasource"
	"github.com/yourusername/keiba-optimizer/internal/models"
)

// Optimizer is the budget solver contract the server depends on.
type Optimizer interface {
	Optimize(ctx context.Context, req models.OptimizeRequest) (*models.OptimizeResponse, error)
}

// Server serves the race data and optimization API.
type Server struct {
	cfg       *config.Config
	source    datasource.RaceDataSource
	optimizer Optimizer
	validator *config.CustomValidator
	logger    *logrus.Logger
	mux       *http.ServeMux
	server    *http.Server
}

// New creates a new API server.
func New(cfg *config.Config, source datasource.RaceDataSource, opt Optimizer, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		source:    source,
		optimizer: opt,
		validator: config.NewValidator(),
		logger:    logger,
	}

	mux := http.NewServeMux()
	s.mux = mux
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /races", s.handleUpcomingRaces)
	mux.HandleFunc("GET /races/past", s.handlePastRaces)
	mux.HandleFunc("GET /races/{race_id}/horses", s.handleHorses)
	mux.HandleFunc("GET /races/{race_id}/results", s.handleResults)
	mux.HandleFunc("GET /races/{race_id}/simulations", s.handleSimulations)
	mux.HandleFunc("POST /optimize", s.handleOptimize)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("API server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}
