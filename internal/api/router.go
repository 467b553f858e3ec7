package api

import (
	"delivery-status-service/internal/api/handlers"
	"delivery-status-service/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of the engine).
func NewRouter(tracker ports.Tracker) http.Handler {
	mux := http.NewServeMux()

	pkgHandler := &handlers.PackageHandler{Tracker: tracker}
	fleetHandler := &handlers.FleetHandler{Tracker: tracker}
	reloadHandler := &handlers.ReloadHandler{Tracker: tracker}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/package/{id}", pkgHandler.Get)
	mux.HandleFunc("/api/package/{id}/status", pkgHandler.Status)
	mux.HandleFunc("/api/packages/status", pkgHandler.AllStatus)
	mux.HandleFunc("/api/total-mileage", fleetHandler.Mileage)
	mux.HandleFunc("/api/trucks", fleetHandler.Trucks)
	mux.HandleFunc("/api/initialize", reloadHandler.Reload)
	mux.Handle("/metrics", promhttp.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
