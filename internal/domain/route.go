package domain

import "slices"

// Represents a single stop in a delivery route.
// A Stop corresponds to arriving at one address at a computed time and
// delivering every package bound for it. The truck may not leave for the
// stop before ReadyAt.
type Stop struct {
	Address    Address
	ReadyAt    TimeOfDay
	ArriveAt   TimeOfDay
	Miles      float64
	PackageIDs []int
}

// Represents the planned delivery route for a single truck.
// A Route begins and ends at the hub. TotalMiles includes the return leg.
type Route struct {
	TruckID    int
	Hub        Address
	DepartAt   TimeOfDay
	Stops      []Stop
	ReturnAt   TimeOfDay
	TotalMiles float64
}

// PackageIDs returns every package delivered on the route in stop order.
func (r *Route) PackageIDs() []int {
	var ids []int
	for _, s := range r.Stops {
		ids = append(ids, s.PackageIDs...)
	}
	return ids
}

// Clone returns a deep copy of the route.
func (r *Route) Clone() *Route {
	cp := *r
	cp.Stops = make([]Stop, len(r.Stops))
	for i, s := range r.Stops {
		s.PackageIDs = slices.Clone(s.PackageIDs)
		cp.Stops[i] = s
	}
	return &cp
}
