package repositories

import (
	"context"
	"database/sql"
	"delivery-status-service/internal/adapters/ingest"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Initialize the Postgres schema for the three input tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAddressesQuery := `
	CREATE TABLE IF NOT EXISTS addresses (
		idx INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		street TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zip TEXT NOT NULL
	);
	`

	createDistancesQuery := `
	CREATE TABLE IF NOT EXISTS distances (
		from_idx INTEGER NOT NULL REFERENCES addresses(idx),
		to_idx INTEGER NOT NULL REFERENCES addresses(idx),
		miles DOUBLE PRECISION NOT NULL CHECK (miles >= 0),
		PRIMARY KEY (from_idx, to_idx)
	);
	`

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS packages (
		package_id INTEGER PRIMARY KEY,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zip TEXT NOT NULL,
		deadline TEXT NOT NULL,
		weight_kg DOUBLE PRECISION NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);
	`

	statements := []string{
		createAddressesQuery,
		createDistancesQuery,
		createPackagesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the content of the three tables with the given records in one transaction.
// Only the lower triangle of the distance table is stored.
func SeedFromRecords(ctx context.Context, db *sql.DB, recs *ingest.Records) error {
	if db == nil {
		return errors.New("seed: DB is nil")
	}
	if recs == nil {
		return errors.New("seed: records are nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `TRUNCATE distances, packages, addresses;`); err != nil {
		return fmt.Errorf("seed: truncate: %w", err)
	}

	addrStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO addresses (idx, name, street, city, state, zip)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("seed addresses: prepare insert: %w", err)
	}
	defer addrStmt.Close()

	for _, a := range recs.Addresses {
		street := strings.TrimSpace(a.Street)
		if street == "" {
			return fmt.Errorf("seed addresses: index %d: street cannot be empty", a.Index)
		}
		if _, err := addrStmt.ExecContext(ctx, a.Index, a.Name, street, a.City, a.State, a.Zip); err != nil {
			return fmt.Errorf("seed addresses: insert idx=%d: %w", a.Index, err)
		}
	}

	distStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO distances (from_idx, to_idx, miles)
	VALUES ($1, $2, $3);
	`)
	if err != nil {
		return fmt.Errorf("seed distances: prepare insert: %w", err)
	}
	defer distStmt.Close()

	for i, row := range recs.Distances {
		for j := 0; j <= i && j < len(row); j++ {
			if math.IsNaN(row[j]) {
				continue
			}
			if _, err := distStmt.ExecContext(ctx, i, j, row[j]); err != nil {
				return fmt.Errorf("seed distances: insert (%d, %d): %w", i, j, err)
			}
		}
	}

	pkgStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO packages (package_id, address, city, state, zip, deadline, weight_kg, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`)
	if err != nil {
		return fmt.Errorf("seed packages: prepare insert: %w", err)
	}
	defer pkgStmt.Close()

	for _, p := range recs.Packages {
		if p.ID <= 0 {
			return fmt.Errorf("seed packages: invalid package_id %d", p.ID)
		}
		if _, err := pkgStmt.ExecContext(ctx, p.ID, p.Street, p.City, p.State, p.Zip, p.Deadline, p.WeightKg, p.Notes); err != nil {
			return fmt.Errorf("seed packages: insert package_id=%d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
