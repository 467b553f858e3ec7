package services

import (
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/ports"
	"slices"
	"time"
)

// NearestNeighborRoute orders the truck's packages into stops using a greedy
// nearest-neighbor walk from the hub, starting at the given time.
//
// Packages are delivered per address, and only once released. When nothing is
// released the truck waits at its current location. A stop with a deadline is
// pulled ahead of the nearest stop once detouring through any other ready stop
// first could make it late; among such stops the least slack wins.
// Distance ties break by lowest package id.
func NearestNeighborRoute(
	truck *domain.Truck,
	hub domain.Address,
	start domain.TimeOfDay,
	fleet domain.Fleet,
	dist ports.DistanceProvider,
) (*domain.Route, error) {
	route := &domain.Route{
		TruckID:  truck.TruckID,
		Hub:      hub,
		DepartAt: start,
		Stops:    []domain.Stop{},
	}

	travel := func(miles float64) time.Duration { return domain.TravelTime(miles, truck.SpeedMPH) }

	pending := make(map[int]*domain.Package, len(truck.Packages))
	for _, p := range truck.Packages {
		pending[p.ID] = p
	}

	now := start
	loc := hub
	miles := 0.0

	for i := 0; len(pending) > 0; i++ {
		if i >= maxIterations {
			return nil, domain.NewConstraintError(0, "truck %d: ordering exceeds %d iterations", truck.TruckID, maxIterations)
		}

		byAddr, addrs, wake := readyByAddress(pending, now, fleet)
		if len(addrs) == 0 {
			now = wake
			continue
		}

		slices.SortFunc(addrs, func(a, b domain.Address) int {
			da, db := dist.Distance(loc.ID, a.ID), dist.Distance(loc.ID, b.ID)
			if da != db {
				if da < db {
					return -1
				}
				return 1
			}
			return byAddr[a.ID].lowest - byAddr[b.ID].lowest
		})

		next := addrs[0]
		var (
			urgent     bool
			bestSlack  time.Duration
			bestDist   float64
			bestLowest int
		)
		for _, a := range addrs[1:] {
			g := byAddr[a.ID]
			if g.deadline >= fleet.DayEnd {
				continue
			}

			var worst time.Duration
			for _, c := range addrs {
				worst = max(worst, travel(dist.Distance(loc.ID, c.ID))+travel(dist.Distance(c.ID, a.ID)))
			}
			if now.Add(worst) <= g.deadline {
				continue
			}

			d := dist.Distance(loc.ID, a.ID)
			slack := time.Duration(g.deadline - now.Add(travel(d)))
			if !urgent || slack < bestSlack ||
				(slack == bestSlack && (d < bestDist || (d == bestDist && g.lowest < bestLowest))) {
				urgent = true
				bestSlack, bestDist, bestLowest = slack, d, g.lowest
				next = a
			}
		}

		leg := dist.Distance(loc.ID, next.ID)
		miles += leg
		now = now.Add(travel(leg))

		g := byAddr[next.ID]
		route.Stops = append(route.Stops, domain.Stop{
			Address:    next,
			ReadyAt:    g.readyAt,
			ArriveAt:   now,
			Miles:      leg,
			PackageIDs: g.ids,
		})
		for _, id := range g.ids {
			delete(pending, id)
		}
		loc = next
	}

	back := dist.Distance(loc.ID, hub.ID)
	miles += back
	route.ReturnAt = now.Add(travel(back))
	route.TotalMiles = miles

	return route, nil
}

type addressGroup struct {
	ids      []int
	lowest   int
	deadline domain.TimeOfDay
	readyAt  domain.TimeOfDay
}

// readyByAddress groups released packages by delivery address. When nothing is
// released it returns the earliest release time instead.
func readyByAddress(
	pending map[int]*domain.Package,
	now domain.TimeOfDay,
	fleet domain.Fleet,
) (map[int]*addressGroup, []domain.Address, domain.TimeOfDay) {
	byAddr := make(map[int]*addressGroup)
	var addrs []domain.Address
	wake := domain.TimeOfDay(-1)

	for _, p := range pending {
		release := p.ReleaseAt(fleet.DayStart)
		if release > now {
			if wake < 0 || release < wake {
				wake = release
			}
			continue
		}

		a := p.DeliveryAddress()
		g, ok := byAddr[a.ID]
		if !ok {
			g = &addressGroup{lowest: p.ID, deadline: fleet.DayEnd, readyAt: release}
			byAddr[a.ID] = g
			addrs = append(addrs, a)
		}
		g.ids = append(g.ids, p.ID)
		g.lowest = min(g.lowest, p.ID)
		g.readyAt = domain.MaxTime(g.readyAt, release)
		g.deadline = min(g.deadline, p.Deadline.Resolve(fleet.DayEnd))
	}

	for _, g := range byAddr {
		slices.Sort(g.ids)
	}
	return byAddr, addrs, wake
}
