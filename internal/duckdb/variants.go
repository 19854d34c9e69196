package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"
	"gopkg.in/guregu/null.v3"

	"github.com/cnr-ibba/smarter-backend/internal/genotype"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

// stringList scans a VARCHAR[] column. DuckDB returns lists as []any.
type stringList []string

func (l *stringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			str, ok := e.(string)
			if !ok {
				return fmt.Errorf("list element %T is not a string", e)
			}
			out = append(out, str)
		}
		*l = out
	default:
		return fmt.Errorf("cannot scan %T into a string list", src)
	}
	return nil
}

type variantRow struct {
	Name        string      `db:"name"`
	ID          null.String `db:"id"`
	RsID        stringList  `db:"rs_id"`
	ChipName    stringList  `db:"chip_name"`
	IlluminaTop null.String `db:"illumina_top"`
	AffySNPID   null.String `db:"affy_snp_id"`
}

type locationRow struct {
	Version         string      `db:"version"`
	ImportedFrom    string      `db:"imported_from"`
	Chrom           string      `db:"chrom"`
	Position        int64       `db:"position"`
	Alleles         null.String `db:"alleles"`
	Illumina        null.String `db:"illumina"`
	IlluminaForward null.String `db:"illumina_forward"`
	Strand          null.String `db:"illumina_strand"`
	AffymetrixAB    null.String `db:"affymetrix_ab"`
}

// WriteVariants batch-inserts variants and their locations using the
// Appender API. Variants that are already stored make the write fail.
// The write is a single transaction: on error nothing is stored.
func (s *Store) WriteVariants(species variant.Species, variants []*variant.Variant) error {
	return s.writeVariants(species, variants, false)
}

// ReplaceVariants swaps the stored variants of a species for variants in
// one transaction. On error the previous variants are kept.
func (s *Store) ReplaceVariants(species variant.Species, variants []*variant.Variant) error {
	return s.writeVariants(species, variants, true)
}

func (s *Store) writeVariants(species variant.Species, variants []*variant.Variant, replace bool) error {
	variantTable, locationTable, err := tableNames(species)
	if err != nil {
		return err
	}
	if err := checkBatch(species, variants); err != nil {
		return err
	}
	if len(variants) == 0 && !replace {
		return nil
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if replace {
		err = clearTables(ctx, conn, variantTable, locationTable)
	}
	if err == nil {
		err = appendVariants(conn, variantTable, locationTable, variants)
	}
	if err != nil {
		if _, rbErr := conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// checkBatch rejects variants of another species and repeated names
// before anything is written.
func checkBatch(species variant.Species, variants []*variant.Variant) error {
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if v.Species != species {
			return fmt.Errorf("variant %q is %s, not %s", v.Name, v.Species, species)
		}
		if _, dup := seen[v.Name]; dup {
			return fmt.Errorf("variant %q appears more than once", v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	return nil
}

func clearTables(ctx context.Context, conn *sql.Conn, variantTable, locationTable string) error {
	if _, err := conn.ExecContext(ctx, "DELETE FROM "+locationTable); err != nil {
		return fmt.Errorf("clear %s: %w", locationTable, err)
	}
	if _, err := conn.ExecContext(ctx, "DELETE FROM "+variantTable); err != nil {
		return fmt.Errorf("clear %s: %w", variantTable, err)
	}
	return nil
}

// appendVariants appends on conn's open transaction. The appenders are
// closed before returning so the caller can commit or roll back.
func appendVariants(conn *sql.Conn, variantTable, locationTable string, variants []*variant.Variant) error {
	var va, la *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		va, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", variantTable)
		if err != nil {
			return err
		}
		la, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", locationTable)
		if err != nil {
			va.Close()
		}
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer va.Close()
	defer la.Close()

	for _, v := range variants {
		if err := va.AppendRow(
			v.Name, nullable(null.NewString(v.ID, v.ID != "")),
			listValue(v.RsID), listValue(v.ChipName),
			v.IlluminaTop, nullable(v.AffySNPID),
		); err != nil {
			return fmt.Errorf("append variant %q: %w", v.Name, err)
		}

		for i, l := range v.Locations() {
			if err := la.AppendRow(
				v.Name, int64(i), l.Version, l.ImportedFrom, l.Chrom, l.Position,
				nullable(l.Alleles), l.Illumina, nullable(l.IlluminaForward),
				string(l.Strand), nullable(l.AffymetrixAB),
			); err != nil {
				return fmt.Errorf("append location %s/%s of %q: %w", l.Version, l.ImportedFrom, v.Name, err)
			}
		}
	}

	if err := va.Flush(); err != nil {
		return fmt.Errorf("flush variants: %w", err)
	}
	if err := la.Flush(); err != nil {
		return fmt.Errorf("flush locations: %w", err)
	}
	return nil
}

// listValue maps an empty list to NULL.
func listValue(l []string) any {
	if len(l) == 0 {
		return nil
	}
	return l
}

func nullable(s null.String) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

// LookupVariant loads a variant and its locations by name.
func (s *Store) LookupVariant(species variant.Species, name string) (*variant.Variant, error) {
	variantTable, locationTable, err := tableNames(species)
	if err != nil {
		return nil, err
	}

	var row variantRow
	err = s.db.Get(&row, `SELECT name, id, rs_id, chip_name, illumina_top, affy_snp_id
		FROM `+variantTable+` WHERE name=?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %q", variant.ErrVariantNotFound, species, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}

	var locs []locationRow
	if err := s.db.Select(&locs, `SELECT
		version, imported_from, chrom, position, alleles,
		illumina, illumina_forward, illumina_strand, affymetrix_ab
		FROM `+locationTable+` WHERE variant_name=? ORDER BY seq`, name); err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}

	v := &variant.Variant{
		ID:          row.ID.String,
		Species:     species,
		Name:        row.Name,
		RsID:        listOrNil(row.RsID),
		ChipName:    listOrNil(row.ChipName),
		IlluminaTop: row.IlluminaTop.String,
		AffySNPID:   row.AffySNPID,
	}
	for _, l := range locs {
		if err := v.AddLocation(variant.Location{
			Version:         l.Version,
			ImportedFrom:    l.ImportedFrom,
			Chrom:           l.Chrom,
			Position:        l.Position,
			Alleles:         l.Alleles,
			Illumina:        l.Illumina.String,
			IlluminaForward: l.IlluminaForward,
			Strand:          genotype.Strand(l.Strand.String),
			AffymetrixAB:    l.AffymetrixAB,
		}); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func listOrNil(l stringList) []string {
	if len(l) == 0 {
		return nil
	}
	return l
}

// VariantNames returns the sorted names of all stored variants of a species.
func (s *Store) VariantNames(species variant.Species) ([]string, error) {
	variantTable, _, err := tableNames(species)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := s.db.Select(&names, `SELECT name FROM `+variantTable+` ORDER BY name`); err != nil {
		return nil, fmt.Errorf("query variant names: %w", err)
	}
	return names, nil
}

// CountVariants returns the number of stored variants of a species.
func (s *Store) CountVariants(species variant.Species) (int, error) {
	variantTable, _, err := tableNames(species)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.Get(&n, `SELECT count(*) FROM `+variantTable); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// ClearVariants removes all stored variants of a species.
func (s *Store) ClearVariants(species variant.Species) error {
	return s.writeVariants(species, nil, true)
}
