package handlers

import (
	"delivery-status-service/internal/api/dto"
	"delivery-status-service/internal/platform/obs"
	"delivery-status-service/internal/ports"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ReloadHandler struct {
	Tracker ports.Tracker
}

// Reload re-reads the dataset and re-runs planning and simulation.
// A failed run leaves the previous snapshot in service. GET is accepted
// alongside POST for clients of the earlier API.
func (h *ReloadHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	snap, err := h.Tracker.Reload(r.Context())
	if err != nil {
		log.Warn().
			Str("req_id", obs.RequestID(r.Context())).
			Err(err).
			Msg("reload rejected")
		writeTrackerError(w, r, "reload", err)
		return
	}

	var total float64
	for _, rt := range snap.Routes() {
		total += rt.TotalMiles
	}

	writeJSON(w, r, http.StatusOK, dto.ReloadResponse{
		Generation:   snap.Generation(),
		BuiltAt:      snap.BuiltAt(),
		Packages:     snap.Catalog().Len(),
		TotalMileage: total,
	})
}
