// Package duckdb stores variants and their locations in DuckDB.
// Each species has its own pair of tables; rows are written with the
// Appender API and read back with sqlx.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

// Store manages a DuckDB connection holding variant data.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// tableNames routes a species to its variant and location tables.
func tableNames(species variant.Species) (variants, locations string, err error) {
	switch species {
	case variant.Sheep, variant.Goat:
		variants = "variant_" + species.String()
		return variants, variants + "_location", nil
	default:
		return "", "", fmt.Errorf("%w: %s", variant.ErrUnknownSpecies, species)
	}
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, species := range variant.AllSpecies {
		variants, locations, err := tableNames(species)
		if err != nil {
			return err
		}

		if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ` + variants + ` (
			name VARCHAR PRIMARY KEY,
			id VARCHAR,
			rs_id VARCHAR[],
			chip_name VARCHAR[],
			illumina_top VARCHAR,
			affy_snp_id VARCHAR
		)`); err != nil {
			return err
		}

		if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ` + locations + ` (
			variant_name VARCHAR,
			seq BIGINT,
			version VARCHAR,
			imported_from VARCHAR,
			chrom VARCHAR,
			position BIGINT,
			alleles VARCHAR,
			illumina VARCHAR,
			illumina_forward VARCHAR,
			illumina_strand VARCHAR,
			affymetrix_ab VARCHAR,
			PRIMARY KEY (variant_name, version, imported_from)
		)`); err != nil {
			return err
		}
	}
	return nil
}
