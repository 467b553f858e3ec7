package services

import (
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/ports"
	"fmt"
)

// Simulate drives every route forward in time and records when each package
// leaves the hub and when it is delivered.
//
// Trucks leave in dispatch order; a truck without a free driver waits at the
// hub for the earliest return. At each stop the truck departs no earlier than
// the stop's ready time. Routes are copied, so the input is left untouched.
func Simulate(
	catalog *domain.Catalog,
	fleet domain.Fleet,
	routes []*domain.Route,
	dist ports.DistanceProvider,
) (*domain.Snapshot, error) {
	byTruck := make(map[int]*domain.Route, len(routes))
	for _, r := range routes {
		if _, dup := byTruck[r.TruckID]; dup {
			return nil, domain.NewConstraintError(0, "simulate: truck %d has two routes", r.TruckID)
		}
		byTruck[r.TruckID] = r
	}

	hub := catalog.Hub()
	pool := newDriverPool(fleet.Drivers)
	assignments := make(map[int]domain.Assignment, catalog.Len())
	simulated := make([]*domain.Route, 0, len(fleet.Trucks))

	for _, spec := range fleet.DispatchOrder() {
		planned, ok := byTruck[spec.ID]
		if !ok {
			planned = &domain.Route{TruckID: spec.ID}
		}
		delete(byTruck, spec.ID)

		route := &domain.Route{
			TruckID:  spec.ID,
			Hub:      hub,
			DepartAt: pool.start(spec.DispatchAt),
			Stops:    make([]domain.Stop, 0, len(planned.Stops)),
		}

		now := route.DepartAt
		loc := hub
		for _, s := range planned.Stops {
			leg := dist.Distance(loc.ID, s.Address.ID)
			now = domain.MaxTime(now, s.ReadyAt).Add(domain.TravelTime(leg, spec.SpeedMPH))
			route.TotalMiles += leg

			for _, id := range s.PackageIDs {
				if _, ok := catalog.Package(id); !ok {
					return nil, domain.NewConstraintError(id, "simulate: truck %d carries an unknown package", spec.ID)
				}
				if prev, dup := assignments[id]; dup {
					return nil, domain.NewConstraintError(id, "simulate: delivered by trucks %d and %d", prev.TruckID, spec.ID)
				}
				assignments[id] = domain.Assignment{
					PackageID:   id,
					TruckID:     spec.ID,
					DepartAt:    route.DepartAt,
					DeliveredAt: now,
				}
			}

			stop := s
			stop.ArriveAt = now
			stop.Miles = leg
			route.Stops = append(route.Stops, stop)
			loc = s.Address
		}

		back := dist.Distance(loc.ID, hub.ID)
		route.TotalMiles += back
		route.ReturnAt = now.Add(domain.TravelTime(back, spec.SpeedMPH))
		pool.release(route.ReturnAt)
		simulated = append(simulated, route)
	}

	for id := range byTruck {
		return nil, domain.NewConstraintError(0, "simulate: route for unknown truck %d", id)
	}
	for _, id := range catalog.IDs() {
		if _, ok := assignments[id]; !ok {
			return nil, fmt.Errorf("simulate: %w", domain.NewConstraintError(id, "package is on no route"))
		}
	}

	return domain.NewSnapshot(catalog, fleet, simulated, assignments), nil
}
