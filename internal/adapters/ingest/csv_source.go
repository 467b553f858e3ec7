package ingest

import (
	"context"
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/platform/obs"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	AddressesFile = "addresses.csv"
	DistancesFile = "distances.csv"
	PackagesFile  = "packages.csv"
)

// CSVSource reads the three input tables from one directory.
type CSVSource struct {
	Dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

// LoadRecords reads the three files concurrently.
func (s *CSVSource) LoadRecords(ctx context.Context) (_ *Records, err error) {
	defer obs.Time(ctx, "ingest.csv.LoadRecords")(&err)

	var recs Records
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.readFile(ctx, AddressesFile, func(r io.Reader) error {
			var err error
			recs.Addresses, err = ReadAddresses(r)
			return err
		})
	})
	g.Go(func() error {
		return s.readFile(ctx, DistancesFile, func(r io.Reader) error {
			var err error
			recs.Distances, err = ReadDistances(r)
			return err
		})
	})
	g.Go(func() error {
		return s.readFile(ctx, PackagesFile, func(r io.Reader) error {
			var err error
			recs.Packages, err = ReadPackages(r)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &recs, nil
}

func (s *CSVSource) LoadDataset(ctx context.Context) (*domain.Dataset, error) {
	recs, err := s.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load csv dataset: %w", err)
	}
	ds, err := recs.Dataset()
	if err != nil {
		return nil, fmt.Errorf("load csv dataset: %w", err)
	}
	return ds, nil
}

func (s *CSVSource) readFile(ctx context.Context, name string, parse func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	if err := parse(f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// ReadAddresses parses an "index,name,street,city,state,zip" table with a header row.
func ReadAddresses(r io.Reader) ([]AddressRecord, error) {
	rows, cols, err := readTable(r, "index", "name", "street", "city", "state", "zip")
	if err != nil {
		return nil, fmt.Errorf("addresses: %w", err)
	}

	out := make([]AddressRecord, 0, len(rows))
	for i, row := range rows {
		idx, err := strconv.Atoi(strings.TrimSpace(row[cols["index"]]))
		if err != nil {
			return nil, domain.NewValidationError("addresses.index", "row %d: %q is not an integer", i+1, row[cols["index"]])
		}
		out = append(out, AddressRecord{
			Index:  idx,
			Name:   row[cols["name"]],
			Street: row[cols["street"]],
			City:   row[cols["city"]],
			State:  row[cols["state"]],
			Zip:    row[cols["zip"]],
		})
	}
	return out, nil
}

// ReadPackages parses the package table with a header row.
func ReadPackages(r io.Reader) ([]PackageRecord, error) {
	rows, cols, err := readTable(r, "package_id", "address", "city", "state", "zip", "deadline", "weight_kg", "notes")
	if err != nil {
		return nil, fmt.Errorf("packages: %w", err)
	}

	out := make([]PackageRecord, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(row[cols["package_id"]]))
		if err != nil {
			return nil, domain.NewValidationError("packages.package_id", "row %d: %q is not an integer", i+1, row[cols["package_id"]])
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[cols["weight_kg"]]), 64)
		if err != nil {
			return nil, domain.NewValidationError("packages.weight_kg", "package %d: %q is not a number", id, row[cols["weight_kg"]])
		}
		out = append(out, PackageRecord{
			ID:       id,
			Street:   row[cols["address"]],
			City:     row[cols["city"]],
			State:    row[cols["state"]],
			Zip:      row[cols["zip"]],
			Deadline: row[cols["deadline"]],
			WeightKg: weight,
			Notes:    row[cols["notes"]],
		})
	}
	return out, nil
}

// ReadDistances parses a headerless triangular table. Blank cells become NaN.
func ReadDistances(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out [][]float64
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewValidationError("distances", "line %d: %v", line, err)
		}

		row := make([]float64, len(rec))
		for j, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				row[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, domain.NewValidationError("distances", "line %d column %d: %q is not a number", line, j+1, cell)
			}
			row[j] = v
		}
		out = append(out, row)
	}
	return out, nil
}

// readTable reads a headed CSV table and maps each required column name to its index.
func readTable(r io.Reader, required ...string) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, domain.NewValidationError("header", "read header: %v", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, domain.NewValidationError("header", "missing column %q", name)
		}
	}

	var rows [][]string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, domain.NewValidationError("csv", "line %d: %v", line, err)
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}
	return rows, cols, nil
}
