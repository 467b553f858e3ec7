package handlers

import (
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Err(err).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// allowMethod rejects any method not listed with 405 and an Allow header.
func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if slices.Contains(methods, r.Method) {
		return true
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// writeTrackerError maps engine errors to HTTP statuses. Unclassified errors
// are logged and reported as a bare 500.
func writeTrackerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "package not found")
	case errors.Is(err, domain.ErrInvalidTime):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotReady):
		writeError(w, r, http.StatusServiceUnavailable, "delivery data not initialized")
	case domain.IsPlanningError(err):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("op", op).
			Err(err).
			Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func packageID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("package id must be a positive integer")
	}
	return id, nil
}

// queryTime reads the required ?time= parameter.
func queryTime(r *http.Request) (domain.TimeOfDay, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("time"))
	if raw == "" {
		return 0, errors.New("time parameter required (HH:MM format)")
	}
	return domain.ParseTimeOfDay(raw)
}
