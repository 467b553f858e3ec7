package handlers

import (
	"delivery-status-service/internal/api/dto"
	"delivery-status-service/internal/ports"
	"net/http"
)

// FleetHandler exposes per-truck routes and mileage.
type FleetHandler struct {
	Tracker ports.Tracker
}

func (h *FleetHandler) Mileage(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	report, err := h.Tracker.GetTotalMileage()
	if err != nil {
		writeTrackerError(w, r, "get total mileage", err)
		return
	}

	res := dto.MileageResponse{
		TotalMileage:      report.Total,
		IndividualMileage: make([]dto.TruckMileageResponse, 0, len(report.Trucks)),
		MileageCeiling:    report.Ceiling,
		UnderCeiling:      report.UnderCeiling,
	}
	for _, t := range report.Trucks {
		res.IndividualMileage = append(res.IndividualMileage, dto.TruckMileageResponse{
			TruckID: t.TruckID,
			Mileage: t.Miles,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *FleetHandler) Trucks(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	routes, err := h.Tracker.GetTrucks()
	if err != nil {
		writeTrackerError(w, r, "get trucks", err)
		return
	}

	res := dto.ListTrucksResponse{Trucks: make([]dto.TruckResponse, 0, len(routes))}
	for _, rt := range routes {
		stops := make([]dto.StopResponse, 0, len(rt.Stops))
		for _, s := range rt.Stops {
			stops = append(stops, dto.StopResponse{
				Address:    s.Address.String(),
				ArriveAt:   s.ArriveAt.String(),
				Miles:      s.Miles,
				PackageIDs: s.PackageIDs,
			})
		}

		ids := rt.PackageIDs()
		if ids == nil {
			ids = []int{}
		}
		res.Trucks = append(res.Trucks, dto.TruckResponse{
			TruckID:       rt.TruckID,
			PackageIDs:    ids,
			Mileage:       rt.TotalMiles,
			DepartureTime: rt.DepartAt.String(),
			ReturnTime:    rt.ReturnAt.String(),
			Stops:         stops,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
