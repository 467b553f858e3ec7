package domain

import (
	"slices"
	"strings"
)

// MaxPackageID bounds the package id range accepted by the catalog.
const MaxPackageID = 40

// Catalog holds the validated package and address records for one planning run.
// It is read-only after construction; callers must not mutate returned packages.
type Catalog struct {
	packages  map[int]*Package
	ids       []int
	addresses []Address
	byStreet  map[string]Address
	hub       Address
}

// NewCatalog validates the records against each other and the fleet.
func NewCatalog(addresses []Address, packages []*Package, fleet Fleet) (*Catalog, error) {
	if len(addresses) == 0 {
		return nil, NewValidationError("addresses", "address table is empty")
	}

	c := &Catalog{
		packages:  make(map[int]*Package, len(packages)),
		ids:       make([]int, 0, len(packages)),
		addresses: slices.Clone(addresses),
		byStreet:  make(map[string]Address, len(addresses)),
	}

	for i, a := range addresses {
		if a.ID != i {
			return nil, NewValidationError("addresses", "row %d has index %d", i, a.ID)
		}
		key := streetKey(a.Street)
		if key == "" {
			return nil, NewValidationError("addresses", "row %d has an empty street", i)
		}
		if _, dup := c.byStreet[key]; dup {
			return nil, NewValidationError("addresses", "duplicate street %q", a.Street)
		}
		c.byStreet[key] = a
	}

	hub, ok := c.byStreet[streetKey(fleet.Hub)]
	if !ok {
		return nil, NewValidationError("fleet.hub", "street %q is not in the address table", fleet.Hub)
	}
	c.hub = hub

	for _, p := range packages {
		if p.ID < 1 || p.ID > MaxPackageID {
			return nil, NewConstraintError(p.ID, "id outside 1..%d", MaxPackageID)
		}
		if _, dup := c.packages[p.ID]; dup {
			return nil, NewConstraintError(p.ID, "duplicate id")
		}
		if err := c.checkAddress(p.ID, p.Address); err != nil {
			return nil, err
		}
		if p.WeightKg <= 0 {
			return nil, NewValidationError("weight_kg", "package %d: must be positive, got %g", p.ID, p.WeightKg)
		}
		c.packages[p.ID] = p
		c.ids = append(c.ids, p.ID)
	}
	slices.Sort(c.ids)

	for _, id := range c.ids {
		if err := c.checkConstraints(c.packages[id], fleet); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) checkAddress(pkgID int, a Address) error {
	known, ok := c.byStreet[streetKey(a.Street)]
	if !ok || known.ID != a.ID {
		return NewValidationError("address", "package %d: %q is not in the address table", pkgID, a.Street)
	}
	return nil
}

func (c *Catalog) checkConstraints(p *Package, fleet Fleet) error {
	cons := p.Constraints
	deadline := p.Deadline.Resolve(fleet.DayEnd)

	for _, other := range cons.GroupWith {
		if other == p.ID {
			return NewConstraintError(p.ID, "grouped with itself")
		}
		peer, ok := c.packages[other]
		if !ok {
			return NewConstraintError(p.ID, "grouped with unknown package %d", other)
		}
		if !slices.Contains(peer.Constraints.GroupWith, p.ID) {
			return NewConstraintError(p.ID, "group with %d is not symmetric", other)
		}
	}

	if cons.TruckRestriction != 0 {
		if _, ok := fleet.Truck(cons.TruckRestriction); !ok {
			return NewConstraintError(p.ID, "restricted to unknown truck %d", cons.TruckRestriction)
		}
	}

	if cons.AvailableAt != nil && *cons.AvailableAt > deadline {
		return NewConstraintError(p.ID, "available at %s after deadline %s", *cons.AvailableAt, deadline)
	}

	if corr := cons.AddressCorrection; corr != nil {
		if err := c.checkAddress(p.ID, corr.Address); err != nil {
			return err
		}
		if corr.At < fleet.DayStart {
			return NewConstraintError(p.ID, "address correction at %s before day start %s", corr.At, fleet.DayStart)
		}
		if corr.At > deadline {
			return NewConstraintError(p.ID, "address correction at %s after deadline %s", corr.At, deadline)
		}
		for _, other := range cons.GroupWith {
			if d := c.packages[other].Deadline.Resolve(fleet.DayEnd); corr.At > d {
				return NewConstraintError(p.ID, "address correction at %s after deadline %s of grouped package %d", corr.At, d, other)
			}
		}
	}

	return nil
}

func streetKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Package looks up a package by id.
func (c *Catalog) Package(id int) (*Package, bool) {
	p, ok := c.packages[id]
	return p, ok
}

// Packages returns every package in ascending id order.
func (c *Catalog) Packages() []*Package {
	out := make([]*Package, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.packages[id])
	}
	return out
}

func (c *Catalog) IDs() []int { return slices.Clone(c.ids) }

func (c *Catalog) Len() int { return len(c.ids) }

func (c *Catalog) Hub() Address { return c.hub }

func (c *Catalog) Addresses() []Address { return slices.Clone(c.addresses) }

// AddressByStreet matches case-insensitively and ignores repeated whitespace.
func (c *Catalog) AddressByStreet(street string) (Address, bool) {
	a, ok := c.byStreet[streetKey(street)]
	return a, ok
}
