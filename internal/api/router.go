package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Upload endpoint. The mobile app sends GET and POST frames and
	// probes with HEAD; responses are plain text by protocol.
	r.Route("/api/obd", func(r chi.Router) {
		r.Use(s.uploadAuthMiddleware)
		r.Get("/", s.handleUpload)
		r.Post("/", s.handleUpload)
		r.Head("/", s.handleUploadProbe)
	})

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", s.handleListVehicles)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetVehicle)
				r.Delete("/", s.handleForgetVehicle)
				r.Get("/values", s.handleVehicleValues)
				r.Get("/meta", s.handleVehicleMeta)
			})
		})

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", s.handleListRoutes)
			r.Route("/{entryID}", func(r chi.Router) {
				r.Get("/", s.handleGetRoute)
				r.Put("/", s.handlePutRoute)
				r.Delete("/", s.handleDeleteRoute)
			})
		})

		r.Get("/debug/last-session", s.handleLastSession)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
