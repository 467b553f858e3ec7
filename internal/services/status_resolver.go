package services

import (
	"delivery-status-service/internal/domain"
	"fmt"
)

// ResolveStatus reports the state and known address of a package at time at.
// The address is resolved independently of the delivery status.
func ResolveStatus(snap *domain.Snapshot, packageID int, at domain.TimeOfDay) (domain.PackageStatus, error) {
	p, ok := snap.Catalog().Package(packageID)
	if !ok {
		return domain.PackageStatus{}, fmt.Errorf("resolve status: package %d: %w", packageID, domain.ErrNotFound)
	}
	a, ok := snap.Assignment(packageID)
	if !ok {
		return domain.PackageStatus{}, fmt.Errorf("resolve status: package %d has no assignment: %w", packageID, domain.ErrNotFound)
	}

	st := domain.PackageStatus{
		PackageID: p.ID,
		Address:   p.AddressAt(at),
		Deadline:  p.Deadline,
		TruckID:   a.TruckID,
	}

	switch {
	case p.Constraints.AvailableAt != nil && at < *p.Constraints.AvailableAt:
		st.Status = domain.StatusDelayed
	case at < a.DepartAt:
		st.Status = domain.StatusAtHub
	case at < a.DeliveredAt:
		st.Status = domain.StatusEnRoute
	default:
		st.Status = domain.StatusDelivered
		delivered := a.DeliveredAt
		st.DeliveredAt = &delivered
	}

	return st, nil
}

// ResolveAll resolves every package in ascending id order.
func ResolveAll(snap *domain.Snapshot, at domain.TimeOfDay) (domain.StatusReport, error) {
	ids := snap.Catalog().IDs()
	report := domain.StatusReport{
		QueryTime: at,
		Packages:  make([]domain.PackageStatus, 0, len(ids)),
	}
	for _, id := range ids {
		st, err := ResolveStatus(snap, id, at)
		if err != nil {
			return domain.StatusReport{}, fmt.Errorf("resolve all: %w", err)
		}
		report.Packages = append(report.Packages, st)
	}
	return report, nil
}
