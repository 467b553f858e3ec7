package repositories

import (
	"context"
	"database/sql"
	"delivery-status-service/internal/adapters/ingest"
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/platform/obs"
	"errors"
	"fmt"
	"math"
)

// Postgres-backed implementation of the DatasetSource port.
type PostgresDatasetSource struct{ DB *sql.DB }

func NewPostgresDatasetSource(db *sql.DB) *PostgresDatasetSource {
	return &PostgresDatasetSource{DB: db}
}

func (s *PostgresDatasetSource) LoadDataset(ctx context.Context) (*domain.Dataset, error) {
	recs, err := s.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := recs.Dataset()
	if err != nil {
		return nil, fmt.Errorf("load postgres dataset: %w", err)
	}
	return ds, nil
}

// Return the raw content of the three tables.
func (s *PostgresDatasetSource) LoadRecords(ctx context.Context) (_ *ingest.Records, err error) {
	defer obs.Time(ctx, "repositories.postgres.LoadRecords")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres dataset source: DB is nil")
	}

	addrs, err := s.listAddresses(ctx)
	if err != nil {
		return nil, err
	}
	dists, err := s.listDistances(ctx, len(addrs))
	if err != nil {
		return nil, err
	}
	pkgs, err := s.listPackages(ctx)
	if err != nil {
		return nil, err
	}

	return &ingest.Records{Addresses: addrs, Distances: dists, Packages: pkgs}, nil
}

func (s *PostgresDatasetSource) listAddresses(ctx context.Context) ([]ingest.AddressRecord, error) {
	query := `
	SELECT idx, name, street, city, state, zip
	FROM addresses
	ORDER BY idx;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list addresses: query addresses table: %w", err)
	}
	defer rows.Close()

	out := make([]ingest.AddressRecord, 0, 32)
	for rows.Next() {
		var a ingest.AddressRecord
		if err := rows.Scan(&a.Index, &a.Name, &a.Street, &a.City, &a.State, &a.Zip); err != nil {
			return nil, fmt.Errorf("list addresses: scan row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list addresses: row iteration: %w", err)
	}
	return out, nil
}

// listDistances rebuilds the triangular table; missing pairs stay NaN.
func (s *PostgresDatasetSource) listDistances(ctx context.Context, n int) ([][]float64, error) {
	table := make([][]float64, n)
	for i := range table {
		table[i] = make([]float64, i+1)
		for j := range table[i] {
			table[i][j] = math.NaN()
		}
	}

	query := `
	SELECT from_idx, to_idx, miles
	FROM distances;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list distances: query distances table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var from, to int
		var miles float64
		if err := rows.Scan(&from, &to, &miles); err != nil {
			return nil, fmt.Errorf("list distances: scan row: %w", err)
		}
		if from < to {
			from, to = to, from
		}
		if to < 0 || from >= n {
			return nil, domain.NewValidationError("distances", "pair (%d, %d) references an unknown address", from, to)
		}
		table[from][to] = miles
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list distances: row iteration: %w", err)
	}
	return table, nil
}

func (s *PostgresDatasetSource) listPackages(ctx context.Context) ([]ingest.PackageRecord, error) {
	query := `
	SELECT package_id, address, city, state, zip, deadline, weight_kg, notes
	FROM packages
	ORDER BY package_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	out := make([]ingest.PackageRecord, 0, 64)
	for rows.Next() {
		var p ingest.PackageRecord
		if err := rows.Scan(&p.ID, &p.Street, &p.City, &p.State, &p.Zip, &p.Deadline, &p.WeightKg, &p.Notes); err != nil {
			return nil, fmt.Errorf("list packages: scan row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}
	return out, nil
}
