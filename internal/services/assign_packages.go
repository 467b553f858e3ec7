package services

import (
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/ports"
	"fmt"
	"slices"
)

// AssignUnits loads every unit onto exactly one truck.
//
// Restricted units go first, then the rest most-constrained first: earliest
// deadline, latest release, lowest member id. Each unit goes to the eligible
// truck with the most room left, ties to the lowest truck id. A driver truck
// is skipped when a trial route with the unit on board would deliver any of
// its packages late; if every truck fails the trial the first choice stands
// and the deadline check reports it.
func AssignUnits(
	units []Unit,
	catalog *domain.Catalog,
	fleet domain.Fleet,
	dist ports.DistanceProvider,
) ([]*domain.Truck, error) {
	if len(fleet.Trucks) == 0 {
		return nil, domain.NewValidationError("fleet.trucks", "at least one truck is required")
	}

	trucks := make([]*domain.Truck, 0, len(fleet.Trucks))
	for _, spec := range fleet.Trucks {
		trucks = append(trucks, domain.NewTruck(spec.ID, spec.Capacity, spec.SpeedMPH, spec.DispatchAt))
	}
	slices.SortFunc(trucks, func(a, b *domain.Truck) int { return a.TruckID - b.TruckID })

	a := &assigner{
		catalog: catalog,
		fleet:   fleet,
		dist:    dist,
		hub:     catalog.Hub(),
		standby: fleet.Standby(),
	}

	for _, u := range assignmentOrder(units) {
		truck, err := a.pick(u, trucks)
		if err != nil {
			return nil, err
		}

		if err := truck.LoadMultiple(a.packages(u)); err != nil {
			return nil, fmt.Errorf("assign units: %w", err)
		}
	}

	return trucks, nil
}

func assignmentOrder(units []Unit) []Unit {
	var restricted, rest []Unit
	for _, u := range units {
		if u.Restriction != 0 {
			restricted = append(restricted, u)
		} else {
			rest = append(rest, u)
		}
	}

	slices.SortStableFunc(restricted, func(a, b Unit) int { return a.LowestID() - b.LowestID() })
	slices.SortStableFunc(rest, func(a, b Unit) int {
		if a.Deadline != b.Deadline {
			return compareTime(a.Deadline, b.Deadline)
		}
		if a.Release != b.Release {
			return compareTime(b.Release, a.Release)
		}
		return a.LowestID() - b.LowestID()
	})

	return append(restricted, rest...)
}

func compareTime(a, b domain.TimeOfDay) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type assigner struct {
	catalog *domain.Catalog
	fleet   domain.Fleet
	dist    ports.DistanceProvider
	hub     domain.Address
	standby map[int]bool
}

func (a *assigner) pick(u Unit, trucks []*domain.Truck) (*domain.Truck, error) {
	candidates := a.eligible(u, trucks, true)
	if len(candidates) == 0 {
		candidates = a.eligible(u, trucks, false)
	}
	if len(candidates) == 0 {
		return nil, domain.NewConstraintError(u.LowestID(), "no truck can carry group %v", u.PackageIDs)
	}

	slices.SortStableFunc(candidates, func(x, y *domain.Truck) int {
		if x.Remaining() != y.Remaining() {
			return y.Remaining() - x.Remaining()
		}
		return x.TruckID - y.TruckID
	})

	for _, t := range candidates {
		if a.standby[t.TruckID] {
			return t, nil
		}
		ok, err := a.onTime(u, t)
		if err != nil {
			return nil, err
		}
		if ok {
			return t, nil
		}
	}
	return candidates[0], nil
}

// onTime reports whether the truck, dispatched on schedule with the unit
// added to its load, still meets every deadline on board.
func (a *assigner) onTime(u Unit, t *domain.Truck) (bool, error) {
	trial := domain.NewTruck(t.TruckID, t.Capacity, t.SpeedMPH, t.DispatchAt)
	trial.Packages = append(slices.Clone(t.Packages), a.packages(u)...)

	route, err := NearestNeighborRoute(trial, a.hub, t.DispatchAt, a.fleet, a.dist)
	if err != nil {
		return false, fmt.Errorf("assign units: trial route truck %d: %w", t.TruckID, err)
	}

	for _, s := range route.Stops {
		for _, id := range s.PackageIDs {
			p, _ := a.catalog.Package(id)
			if s.ArriveAt > p.Deadline.Resolve(a.fleet.DayEnd) {
				return false, nil
			}
		}
	}
	return true, nil
}

func (a *assigner) packages(u Unit) []*domain.Package {
	pkgs := make([]*domain.Package, 0, len(u.PackageIDs))
	for _, id := range u.PackageIDs {
		p, _ := a.catalog.Package(id)
		pkgs = append(pkgs, p)
	}
	return pkgs
}

func (a *assigner) eligible(u Unit, trucks []*domain.Truck, strict bool) []*domain.Truck {
	var out []*domain.Truck
	for _, t := range trucks {
		if a.fits(u, t, strict) {
			out = append(out, t)
		}
	}
	return out
}

func (a *assigner) fits(u Unit, t *domain.Truck, strict bool) bool {
	if len(u.PackageIDs) > t.Remaining() {
		return false
	}
	if u.Restriction != 0 && u.Restriction != t.TruckID {
		return false
	}
	if u.AvailableAt > t.DispatchAt {
		return false
	}

	if u.Deadline < a.fleet.DayEnd {
		if a.standby[t.TruckID] {
			return false
		}
		for _, id := range u.PackageIDs {
			p, _ := a.catalog.Package(id)
			miles := a.dist.Distance(a.hub.ID, p.DeliveryAddress().ID)
			if t.DispatchAt.Add(domain.TravelTime(miles, t.SpeedMPH)) > p.Deadline.Resolve(a.fleet.DayEnd) {
				return false
			}
		}
	}

	if strict && u.Release > t.DispatchAt {
		return false
	}
	return true
}
