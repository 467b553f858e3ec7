package domain

// DeliveryStatus is the point-in-time state of a package.
type DeliveryStatus string

const (
	StatusDelayed   DeliveryStatus = "Delayed on flight"
	StatusAtHub     DeliveryStatus = "At the hub"
	StatusEnRoute   DeliveryStatus = "En route"
	StatusDelivered DeliveryStatus = "Delivered"
)

// Represents a single delivery unit handled by the system.
// A Package has a unique identifier and a single destination address.
// Status is a placeholder; point-in-time status is resolved from a Snapshot
// and never written back here.
type Package struct {
	ID          int
	Address     Address
	WeightKg    float64
	Deadline    Deadline
	Status      DeliveryStatus
	Notes       string
	Constraints Constraints
}

// Delivery constraints attached to a package.
// A zero TruckRestriction means the package may ride on any truck.
type Constraints struct {
	GroupWith         []int
	TruckRestriction  int
	AvailableAt       *TimeOfDay
	AddressCorrection *AddressCorrection
}

// AddressCorrection replaces the listed address once it becomes known at At.
type AddressCorrection struct {
	Address Address
	At      TimeOfDay
}

// AvailableFrom returns the time the package reaches the hub, or dayStart when it is not delayed.
func (p *Package) AvailableFrom(dayStart TimeOfDay) TimeOfDay {
	if p.Constraints.AvailableAt != nil {
		return MaxTime(*p.Constraints.AvailableAt, dayStart)
	}
	return dayStart
}

// ReleaseAt is the earliest time the package may leave the hub for its final address.
func (p *Package) ReleaseAt(dayStart TimeOfDay) TimeOfDay {
	t := p.AvailableFrom(dayStart)
	if c := p.Constraints.AddressCorrection; c != nil {
		t = MaxTime(t, c.At)
	}
	return t
}

// DeliveryAddress is where the package is actually delivered.
func (p *Package) DeliveryAddress() Address {
	if c := p.Constraints.AddressCorrection; c != nil {
		return c.Address
	}
	return p.Address
}

// AddressAt returns the address known for the package at time t.
func (p *Package) AddressAt(t TimeOfDay) Address {
	if c := p.Constraints.AddressCorrection; c != nil && t >= c.At {
		return c.Address
	}
	return p.Address
}

func (p *Package) HasDeadline(dayEnd TimeOfDay) bool {
	return p.Deadline.Resolve(dayEnd) < dayEnd
}
