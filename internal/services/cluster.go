package services

import (
	"delivery-status-service/internal/domain"
	"slices"
)

// maxIterations caps every search loop in the planner.
const maxIterations = 10_000

// Unit is a set of packages that must travel together on one truck.
type Unit struct {
	PackageIDs  []int
	Restriction int
	Deadline    domain.TimeOfDay
	AvailableAt domain.TimeOfDay
	Release     domain.TimeOfDay
	AddressIDs  []int
}

func (u Unit) LowestID() int { return u.PackageIDs[0] }

func (u Unit) hasAddress(id int) bool { return slices.Contains(u.AddressIDs, id) }

type unionFind struct {
	parent map[int]int
}

func newUnionFind(ids []int) *unionFind {
	uf := &unionFind{parent: make(map[int]int, len(ids))}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

func (uf *unionFind) find(x int) (int, error) {
	for i := 0; uf.parent[x] != x; i++ {
		if i >= maxIterations {
			return 0, domain.NewConstraintError(x, "group chain exceeds %d links", maxIterations)
		}
		x = uf.parent[x]
	}
	return x, nil
}

// union keeps the lower id as the root.
func (uf *unionFind) union(a, b int) error {
	ra, err := uf.find(a)
	if err != nil {
		return err
	}
	rb, err := uf.find(b)
	if err != nil {
		return err
	}
	if ra == rb {
		return nil
	}
	uf.parent[max(ra, rb)] = min(ra, rb)
	return nil
}

// ClusterPackages merges every package with its group closure into atomic units,
// ordered by lowest member id.
func ClusterPackages(catalog *domain.Catalog, fleet domain.Fleet) ([]Unit, error) {
	ids := catalog.IDs()
	uf := newUnionFind(ids)

	for _, p := range catalog.Packages() {
		for _, other := range p.Constraints.GroupWith {
			if err := uf.union(p.ID, other); err != nil {
				return nil, err
			}
		}
	}

	members := make(map[int][]int)
	var roots []int
	for _, id := range ids {
		root, err := uf.find(id)
		if err != nil {
			return nil, err
		}
		if _, ok := members[root]; !ok {
			roots = append(roots, root)
		}
		members[root] = append(members[root], id)
	}
	slices.Sort(roots)

	units := make([]Unit, 0, len(roots))
	for _, root := range roots {
		u, err := buildUnit(catalog, fleet, members[root])
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func buildUnit(catalog *domain.Catalog, fleet domain.Fleet, ids []int) (Unit, error) {
	u := Unit{
		PackageIDs:  ids,
		Deadline:    fleet.DayEnd,
		AvailableAt: fleet.DayStart,
		Release:     fleet.DayStart,
	}

	for _, id := range ids {
		p, _ := catalog.Package(id)

		if r := p.Constraints.TruckRestriction; r != 0 {
			if u.Restriction != 0 && u.Restriction != r {
				return Unit{}, domain.NewConstraintError(
					u.LowestID(), "group %v is restricted to trucks %d and %d", ids, u.Restriction, r,
				)
			}
			u.Restriction = r
		}

		u.Deadline = min(u.Deadline, p.Deadline.Resolve(fleet.DayEnd))
		u.AvailableAt = domain.MaxTime(u.AvailableAt, p.AvailableFrom(fleet.DayStart))
		u.Release = domain.MaxTime(u.Release, p.ReleaseAt(fleet.DayStart))

		if a := p.DeliveryAddress().ID; !slices.Contains(u.AddressIDs, a) {
			u.AddressIDs = append(u.AddressIDs, a)
		}
	}
	return u, nil
}
