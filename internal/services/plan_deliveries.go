package services

import (
	"context"
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/platform/obs"
	"fmt"
)

// PlanDeliveries runs the whole pipeline for one dataset: distance matrix and
// catalog validation, route planning, simulation and the deadline check.
// It performs no I/O; the returned snapshot carries no generation yet.
func PlanDeliveries(ctx context.Context, ds *domain.Dataset, fleet domain.Fleet) (_ *domain.Snapshot, err error) {
	defer obs.Time(ctx, "services.PlanDeliveries")(&err)

	if ds == nil {
		return nil, domain.NewValidationError("dataset", "is nil")
	}
	if err := fleet.Validate(); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	matrix, err := domain.NewDistanceMatrix(ds.Addresses, ds.Distances)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: distance matrix: %w", err)
	}

	catalog, err := domain.NewCatalog(ds.Addresses, ds.Packages, fleet)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: catalog: %w", err)
	}

	routes, err := PlanRoutes(catalog, fleet, matrix)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	snap, err := Simulate(catalog, fleet, routes, matrix)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	if err := VerifyDeadlines(snap); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	return snap, nil
}
