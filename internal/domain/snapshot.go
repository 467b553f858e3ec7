package domain

import (
	"slices"
	"time"
)

// Assignment records where and when a package travels.
type Assignment struct {
	PackageID   int
	TruckID     int
	DepartAt    TimeOfDay
	DeliveredAt TimeOfDay
}

// Snapshot is the immutable result of one planning and simulation run.
// It is safe for concurrent readers; a reload replaces it wholesale.
type Snapshot struct {
	catalog     *Catalog
	fleet       Fleet
	routes      map[int]*Route
	assignments map[int]Assignment
	generation  uint64
	builtAt     time.Time
}

func NewSnapshot(catalog *Catalog, fleet Fleet, routes []*Route, assignments map[int]Assignment) *Snapshot {
	byTruck := make(map[int]*Route, len(routes))
	for _, r := range routes {
		byTruck[r.TruckID] = r
	}
	return &Snapshot{
		catalog:     catalog,
		fleet:       fleet,
		routes:      byTruck,
		assignments: assignments,
	}
}

// Stamp returns a copy of the snapshot carrying the given generation and build time.
func (s *Snapshot) Stamp(generation uint64, builtAt time.Time) *Snapshot {
	cp := *s
	cp.generation = generation
	cp.builtAt = builtAt
	return &cp
}

func (s *Snapshot) Catalog() *Catalog { return s.catalog }

func (s *Snapshot) Fleet() Fleet { return s.fleet }

func (s *Snapshot) Generation() uint64 { return s.generation }

func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

func (s *Snapshot) Assignment(packageID int) (Assignment, bool) {
	a, ok := s.assignments[packageID]
	return a, ok
}

// Route returns a copy of the truck's route; the snapshot's own routes never leave it.
func (s *Snapshot) Route(truckID int) (*Route, bool) {
	r, ok := s.routes[truckID]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// TruckIDs returns the ids of all routed trucks in ascending order.
func (s *Snapshot) TruckIDs() []int {
	ids := make([]int, 0, len(s.routes))
	for id := range s.routes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Routes returns a copy of every route in ascending truck id order.
func (s *Snapshot) Routes() []*Route {
	out := make([]*Route, 0, len(s.routes))
	for _, id := range s.TruckIDs() {
		out = append(out, s.routes[id].Clone())
	}
	return out
}
