package domain

import (
	"fmt"
	"slices"
)

// Delivery truck aggregate holding the packages assigned to one route.
type Truck struct {
	TruckID    int
	Capacity   int
	SpeedMPH   float64
	DispatchAt TimeOfDay
	Packages   []*Package
}

func NewTruck(id, capacity int, speedMPH float64, dispatchAt TimeOfDay) *Truck {
	return &Truck{
		TruckID:    id,
		Capacity:   capacity,
		SpeedMPH:   speedMPH,
		DispatchAt: dispatchAt,
	}
}

// Load a single package onto the truck.
func (t *Truck) Load(pkg *Package) error {
	if len(t.Packages) >= t.Capacity {
		return fmt.Errorf("load truck: truck %d is at full capacity (capacity=%d)", t.TruckID, t.Capacity)
	}
	t.Packages = append(t.Packages, pkg)
	return nil
}

// Load multiple packages onto the truck. Either all of them fit or none are loaded.
func (t *Truck) LoadMultiple(pkgs []*Package) error {
	if len(t.Packages)+len(pkgs) > t.Capacity {
		return fmt.Errorf(
			"load truck: truck %d cannot take %d packages (loaded=%d capacity=%d)",
			t.TruckID, len(pkgs), len(t.Packages), t.Capacity,
		)
	}
	for _, pkg := range pkgs {
		if err := t.Load(pkg); err != nil {
			return err
		}
	}

	return nil
}

func (t *Truck) Remaining() int { return t.Capacity - len(t.Packages) }

// PackageIDs returns the loaded package ids in ascending order.
func (t *Truck) PackageIDs() []int {
	ids := make([]int, 0, len(t.Packages))
	for _, p := range t.Packages {
		ids = append(ids, p.ID)
	}
	slices.Sort(ids)
	return ids
}

// Unload all packages from the truck.
func (t *Truck) Clear() {
	t.Packages = nil
}

// TruckSpec is the configured, package-free description of a truck.
type TruckSpec struct {
	ID         int
	Capacity   int
	SpeedMPH   float64
	DispatchAt TimeOfDay
}

// Fleet describes the trucks, drivers and working day for one planning run.
type Fleet struct {
	Hub            string
	Drivers        int
	DayStart       TimeOfDay
	DayEnd         TimeOfDay
	MileageCeiling float64
	Trucks         []TruckSpec
}

func (f Fleet) Validate() error {
	if f.Hub == "" {
		return NewValidationError("fleet.hub", "must be set")
	}
	if f.Drivers < 1 {
		return NewValidationError("fleet.drivers", "must be at least 1, got %d", f.Drivers)
	}
	if f.DayEnd <= f.DayStart {
		return NewValidationError("fleet.day_end", "%s is not after day start %s", f.DayEnd, f.DayStart)
	}
	if f.MileageCeiling <= 0 {
		return NewValidationError("fleet.mileage_ceiling", "must be positive")
	}
	if len(f.Trucks) == 0 {
		return NewValidationError("fleet.trucks", "at least one truck is required")
	}

	seen := make(map[int]struct{}, len(f.Trucks))
	for _, t := range f.Trucks {
		if t.ID < 1 {
			return NewValidationError("fleet.trucks.id", "must be positive, got %d", t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return NewValidationError("fleet.trucks.id", "duplicate truck %d", t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.Capacity < 1 {
			return NewValidationError("fleet.trucks.capacity", "truck %d: must be positive", t.ID)
		}
		if t.SpeedMPH <= 0 {
			return NewValidationError("fleet.trucks.speed_mph", "truck %d: must be positive", t.ID)
		}
		if t.DispatchAt < f.DayStart || t.DispatchAt >= f.DayEnd {
			return NewValidationError("fleet.trucks.dispatch", "truck %d: %s is outside the working day", t.ID, t.DispatchAt)
		}
	}
	return nil
}

func (f Fleet) Truck(id int) (TruckSpec, bool) {
	for _, t := range f.Trucks {
		if t.ID == id {
			return t, true
		}
	}
	return TruckSpec{}, false
}

// DispatchOrder returns the trucks sorted by dispatch time, then id.
func (f Fleet) DispatchOrder() []TruckSpec {
	out := slices.Clone(f.Trucks)
	slices.SortFunc(out, func(a, b TruckSpec) int {
		if a.DispatchAt != b.DispatchAt {
			if a.DispatchAt < b.DispatchAt {
				return -1
			}
			return 1
		}
		return a.ID - b.ID
	})
	return out
}

// Standby reports the trucks that have no driver at their configured dispatch
// time and must wait for one to return.
func (f Fleet) Standby() map[int]bool {
	out := make(map[int]bool)
	for i, t := range f.DispatchOrder() {
		if i >= f.Drivers {
			out[t.ID] = true
		}
	}
	return out
}
