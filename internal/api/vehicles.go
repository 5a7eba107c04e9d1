package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListVehicles returns the summary of every known vehicle.
func (s *Server) handleListVehicles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"vehicles": s.coordinator.Vehicles(),
	})
}

// handleGetVehicle returns the latest session of one vehicle.
func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "id")
	session, ok := s.coordinator.GetSession(carID)
	if !ok {
		writeNotFound(w, "unknown vehicle")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleVehicleValues returns the latest signal values of one vehicle.
func (s *Server) handleVehicleValues(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "id")
	session, ok := s.coordinator.GetSession(carID)
	if !ok {
		writeNotFound(w, "unknown vehicle")
		return
	}
	writeJSON(w, http.StatusOK, session.Values)
}

// handleVehicleMeta returns the signal metadata of one vehicle.
func (s *Server) handleVehicleMeta(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "id")
	if _, ok := s.coordinator.GetSession(carID); !ok {
		writeNotFound(w, "unknown vehicle")
		return
	}
	writeJSON(w, http.StatusOK, s.coordinator.GetMeta(carID))
}

// handleForgetVehicle removes a vehicle from the registry and the
// persisted catalog. Its entities are recreated if it uploads again.
func (s *Server) handleForgetVehicle(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "id")
	if _, ok := s.coordinator.GetSession(carID); !ok {
		writeNotFound(w, "unknown vehicle")
		return
	}
	if err := s.coordinator.ForgetVehicle(r.Context(), carID); err != nil {
		s.logger.Error("forgetting vehicle", "car_id", carID, "error", err)
		writeInternalError(w, "failed to forget vehicle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
