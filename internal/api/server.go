// Package api provides the HTTP surface of the telemetry service: the
// upload endpoint the mobile app posts frames to, and a small REST API
// for reading vehicle state and managing routes.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/obddrive/obd-core/internal/infrastructure/config"
	"github.com/obddrive/obd-core/internal/infrastructure/logging"
	"github.com/obddrive/obd-core/internal/ingest"
	"github.com/obddrive/obd-core/internal/vehicle"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	Logger      *logging.Logger
	Ingest      *ingest.Service
	Coordinator *vehicle.Coordinator
	Store       *vehicle.Store // optional, enables persisted deletes
	Metrics     *Metrics       // optional, enables /metrics
	Version     string
}

// Server is the HTTP server for the telemetry service.
type Server struct {
	cfg         config.APIConfig
	logger      *logging.Logger
	ingest      *ingest.Service
	coordinator *vehicle.Coordinator
	store       *vehicle.Store
	metrics     *Metrics
	version     string
	server      *http.Server
}

// New creates the API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Ingest == nil {
		return nil, fmt.Errorf("ingest service is required")
	}
	if deps.Coordinator == nil {
		return nil, fmt.Errorf("vehicle coordinator is required")
	}

	return &Server{
		cfg:         deps.Config,
		logger:      deps.Logger,
		ingest:      deps.Ingest,
		coordinator: deps.Coordinator,
		store:       deps.Store,
		metrics:     deps.Metrics,
		version:     deps.Version,
	}, nil
}

// Start begins listening for HTTP connections in a background
// goroutine. The server is stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds
// for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
