package handlers

import (
	"delivery-status-service/internal/api/dto"
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/ports"
	"net/http"
)

// PackageHandler exposes package lookup and point-in-time status endpoints.
type PackageHandler struct {
	Tracker ports.Tracker
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id, err := packageID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.Tracker.GetPackage(id)
	if err != nil {
		writeTrackerError(w, r, "get package", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PackageResponse{
		PackageID: p.ID,
		Address:   p.Address.Street,
		City:      p.Address.City,
		State:     p.Address.State,
		Zip:       p.Address.Zip,
		Deadline:  p.Deadline.String(),
		WeightKg:  p.WeightKg,
		Notes:     p.Notes,
	})
}

// Status reports one package at ?time=.
func (h *PackageHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id, err := packageID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	at, err := queryTime(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.Tracker.GetPackageStatus(id, at)
	if err != nil {
		writeTrackerError(w, r, "get package status", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toStatusResponse(st))
}

// AllStatus reports every package at ?time= in ascending id order.
func (h *PackageHandler) AllStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	at, err := queryTime(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.Tracker.GetAllPackagesStatus(at)
	if err != nil {
		writeTrackerError(w, r, "get all packages status", err)
		return
	}

	res := dto.ListPackageStatusResponse{
		QueryTime: report.QueryTime.String(),
		Packages:  make([]dto.PackageStatusResponse, 0, len(report.Packages)),
	}
	for _, st := range report.Packages {
		res.Packages = append(res.Packages, toStatusResponse(st))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toStatusResponse(st domain.PackageStatus) dto.PackageStatusResponse {
	res := dto.PackageStatusResponse{
		PackageID:        st.PackageID,
		DeliveryAddress:  st.Address.String(),
		DeliveryDeadline: st.Deadline.String(),
		TruckNumber:      st.TruckID,
		DeliveryStatus:   string(st.Status),
	}
	if st.DeliveredAt != nil {
		at := st.DeliveredAt.String()
		res.DeliveryTime = &at
	}
	return res
}
