package services

import (
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/ports"
	"fmt"
	"slices"
)

// PlanRoutes clusters, assigns and orders every package in the catalog and
// returns one route per truck in ascending truck id order.
//
// This is a heuristic: it honors every hard constraint it can see but does not
// search for a minimum-distance plan.
func PlanRoutes(
	catalog *domain.Catalog,
	fleet domain.Fleet,
	dist ports.DistanceProvider,
) ([]*domain.Route, error) {
	units, err := ClusterPackages(catalog, fleet)
	if err != nil {
		return nil, fmt.Errorf("plan routes: cluster: %w", err)
	}

	trucks, err := AssignUnits(units, catalog, fleet, dist)
	if err != nil {
		return nil, fmt.Errorf("plan routes: assign: %w", err)
	}
	byID := make(map[int]*domain.Truck, len(trucks))
	for _, t := range trucks {
		byID[t.TruckID] = t
	}

	pool := newDriverPool(fleet.Drivers)
	routes := make([]*domain.Route, 0, len(trucks))

	for _, spec := range fleet.DispatchOrder() {
		start := pool.start(spec.DispatchAt)

		route, err := NearestNeighborRoute(byID[spec.ID], catalog.Hub(), start, fleet, dist)
		if err != nil {
			return nil, fmt.Errorf("plan routes: order truck %d: %w", spec.ID, err)
		}
		pool.release(route.ReturnAt)
		routes = append(routes, route)
	}

	slices.SortFunc(routes, func(a, b *domain.Route) int { return a.TruckID - b.TruckID })
	return routes, nil
}

// driverPool hands out drivers in dispatch order. Once every driver has left,
// the next truck waits for the earliest return to the hub.
type driverPool struct {
	drivers int
	issued  int
	returns []domain.TimeOfDay
}

func newDriverPool(drivers int) *driverPool {
	return &driverPool{drivers: drivers}
}

func (p *driverPool) start(dispatch domain.TimeOfDay) domain.TimeOfDay {
	defer func() { p.issued++ }()
	if p.issued < p.drivers || len(p.returns) == 0 {
		return dispatch
	}

	i := slices.Index(p.returns, slices.Min(p.returns))
	earliest := p.returns[i]
	p.returns = slices.Delete(p.returns, i, i+1)
	return domain.MaxTime(dispatch, earliest)
}

func (p *driverPool) release(at domain.TimeOfDay) {
	p.returns = append(p.returns, at)
}

// VerifyDeadlines walks the catalog in ascending id order and reports the first
// package delivered after its deadline.
func VerifyDeadlines(snap *domain.Snapshot) error {
	fleet := snap.Fleet()
	for _, p := range snap.Catalog().Packages() {
		a, ok := snap.Assignment(p.ID)
		if !ok {
			return domain.NewConstraintError(p.ID, "package was never routed")
		}
		deadline := p.Deadline.Resolve(fleet.DayEnd)
		if a.DeliveredAt > deadline {
			return &domain.RoutingInfeasibleError{
				PackageID:   p.ID,
				TruckID:     a.TruckID,
				DeliveredAt: a.DeliveredAt,
				Deadline:    deadline,
			}
		}
	}
	return nil
}
