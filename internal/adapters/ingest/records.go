package ingest

import (
	"delivery-status-service/internal/domain"
	"fmt"
	"slices"
	"strings"
)

// AddressRecord is one row of the address table.
type AddressRecord struct {
	Index  int
	Name   string
	Street string
	City   string
	State  string
	Zip    string
}

// PackageRecord is one row of the package table before constraint parsing.
type PackageRecord struct {
	ID       int
	Street   string
	City     string
	State    string
	Zip      string
	Deadline string
	WeightKg float64
	Notes    string
}

// BuildDataset resolves package addresses, parses notes into constraints and
// symmetrizes group references. The distance table is passed through as is.
func BuildDataset(addresses []AddressRecord, distances [][]float64, packages []PackageRecord) (*domain.Dataset, error) {
	addrs := make([]domain.Address, 0, len(addresses))
	for _, r := range addresses {
		addrs = append(addrs, domain.Address{
			ID:     r.Index,
			Name:   strings.TrimSpace(r.Name),
			Street: strings.TrimSpace(r.Street),
			City:   strings.TrimSpace(r.City),
			State:  strings.TrimSpace(r.State),
			Zip:    strings.TrimSpace(r.Zip),
		})
	}
	slices.SortFunc(addrs, func(a, b domain.Address) int { return a.ID - b.ID })

	byStreet := make(map[string]domain.Address, len(addrs))
	for _, a := range addrs {
		byStreet[normalizeStreet(a.Street)] = a
	}
	lookup := func(pkgID int, street string) (domain.Address, error) {
		a, ok := byStreet[normalizeStreet(street)]
		if !ok {
			return domain.Address{}, domain.NewValidationError("address", "package %d: unknown street %q", pkgID, street)
		}
		return a, nil
	}

	pkgs := make([]*domain.Package, 0, len(packages))
	byID := make(map[int]*domain.Package, len(packages))

	for _, r := range packages {
		addr, err := lookup(r.ID, r.Street)
		if err != nil {
			return nil, fmt.Errorf("build dataset: %w", err)
		}

		deadline, err := domain.ParseDeadline(r.Deadline)
		if err != nil {
			return nil, fmt.Errorf("build dataset: %w",
				domain.NewValidationError("deadline", "package %d: %v", r.ID, err))
		}

		note, err := parseNote(r.ID, r.Notes)
		if err != nil {
			return nil, fmt.Errorf("build dataset: %w", err)
		}

		cons := domain.Constraints{
			GroupWith:        note.groupWith,
			TruckRestriction: note.truck,
			AvailableAt:      note.availableAt,
		}
		if note.correctionAt != nil {
			corrected, err := lookup(r.ID, correctionStreet(note.correctionText))
			if err != nil {
				return nil, fmt.Errorf("build dataset: correction: %w", err)
			}
			cons.AddressCorrection = &domain.AddressCorrection{Address: corrected, At: *note.correctionAt}
		}

		p := &domain.Package{
			ID:          r.ID,
			Address:     addr,
			WeightKg:    r.WeightKg,
			Deadline:    deadline,
			Status:      domain.StatusAtHub,
			Notes:       strings.TrimSpace(r.Notes),
			Constraints: cons,
		}
		pkgs = append(pkgs, p)
		byID[p.ID] = p
	}

	symmetrizeGroups(pkgs, byID)

	return &domain.Dataset{
		Addresses: addrs,
		Distances: distances,
		Packages:  pkgs,
	}, nil
}

// symmetrizeGroups makes every group reference mutual. References to unknown
// ids are left for catalog validation to reject.
func symmetrizeGroups(pkgs []*domain.Package, byID map[int]*domain.Package) {
	for _, p := range pkgs {
		for _, other := range p.Constraints.GroupWith {
			peer, ok := byID[other]
			if !ok || peer == p {
				continue
			}
			if !slices.Contains(peer.Constraints.GroupWith, p.ID) {
				peer.Constraints.GroupWith = append(peer.Constraints.GroupWith, p.ID)
			}
		}
	}
	for _, p := range pkgs {
		slices.Sort(p.Constraints.GroupWith)
	}
}

func normalizeStreet(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Records is the raw content of the three input tables.
type Records struct {
	Addresses []AddressRecord
	Distances [][]float64
	Packages  []PackageRecord
}

func (r *Records) Dataset() (*domain.Dataset, error) {
	return BuildDataset(r.Addresses, r.Distances, r.Packages)
}
