package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/obddrive/obd-core/internal/ingest"
)

// handleListRoutes returns all configured routes.
func (s *Server) handleListRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"routes": s.ingest.Routes(),
	})
}

// handleGetRoute returns one route spec.
func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	spec, ok := s.ingest.ResolveEntryRoute(entryID)
	if !ok {
		writeNotFound(w, "unknown route")
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

// handlePutRoute creates or replaces a route. The entry id in the URL
// is authoritative; a mismatching id in the body is rejected.
func (s *Server) handlePutRoute(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	var spec ingest.RouteSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeBadRequest(w, "invalid route body")
		return
	}
	if spec.EntryID != "" && spec.EntryID != entryID {
		writeBadRequest(w, "entry id mismatch")
		return
	}
	spec.EntryID = entryID
	spec.Sink = s.coordinator

	s.ingest.UpsertRoute(spec)
	s.logger.Info("route upserted", "entry_id", entryID, "email", spec.Email)
	writeJSON(w, http.StatusOK, spec)
}

// handleDeleteRoute removes a route. Removing the last one deactivates
// the upload endpoint.
func (s *Server) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	if _, ok := s.ingest.ResolveEntryRoute(entryID); !ok {
		writeNotFound(w, "unknown route")
		return
	}
	s.ingest.RemoveRoute(entryID)
	s.logger.Info("route removed", "entry_id", entryID)
	w.WriteHeader(http.StatusNoContent)
}
