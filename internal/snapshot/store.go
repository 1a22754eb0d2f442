// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot persists the consolidated observation table as a
// SQLite database. The compiler writes it once per run and the query
// engine treats it as read-only for the duration of a session.
package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/greenmtn/forage-engine/pkg/types"
)

// Store manages the snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at path, creating the
// schema and parent directory if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			uuid TEXT PRIMARY KEY,
			species_key TEXT NOT NULL,
			scientific_name TEXT,
			genus TEXT,
			common_name TEXT,
			quality_grade TEXT,
			observed_at TEXT NOT NULL,
			location TEXT,
			description TEXT,
			taxon_id TEXT,
			lat REAL,
			long REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_species_key
			ON observations(species_key)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_genus
			ON observations(genus)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Write replaces the snapshot with the compiled mapping in one
// transaction. The uuid primary key re-enforces the compiler's
// uniqueness invariant: a duplicate insert keeps the first row.
func (s *Store) Write(master map[string][]types.Observation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM observations`); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO observations
		(uuid, species_key, scientific_name, genus, common_name,
		 quality_grade, observed_at, location, description, taxon_id, lat, long)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	// Species keys in sorted order so keep-first conflicts resolve the
	// same way on every run.
	keys := make([]string, 0, len(master))
	for key := range master {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, o := range master[key] {
			if o.ObservedAt == nil {
				continue
			}
			_, err := stmt.Exec(
				o.UUID, o.SpeciesKey, o.ScientificName, o.Genus, o.CommonName,
				o.QualityGrade, o.ObservedAt.UTC().Format(time.RFC3339),
				o.Location, o.Description, o.TaxonID,
				nullFloat(o.Latitude), nullFloat(o.Longitude),
			)
			if err != nil {
				return fmt.Errorf("inserting observation %s: %w", o.UUID, err)
			}
		}
	}

	return tx.Commit()
}

// Load reads the whole snapshot back into the species-keyed mapping.
func (s *Store) Load() (map[string][]types.Observation, error) {
	rows, err := s.db.Query(`SELECT uuid, species_key, scientific_name, genus,
		common_name, quality_grade, observed_at, location, description,
		taxon_id, lat, long
		FROM observations ORDER BY species_key, uuid`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	master := map[string][]types.Observation{}
	for rows.Next() {
		var (
			o          types.Observation
			observedAt string
			lat, long  sql.NullFloat64
		)
		err := rows.Scan(&o.UUID, &o.SpeciesKey, &o.ScientificName, &o.Genus,
			&o.CommonName, &o.QualityGrade, &observedAt, &o.Location,
			&o.Description, &o.TaxonID, &lat, &long)
		if err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}

		t, err := time.Parse(time.RFC3339, observedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing observed_at for %s: %w", o.UUID, err)
		}
		o.ObservedAt = &t

		if lat.Valid {
			o.Latitude = &lat.Float64
		}
		if long.Valid {
			o.Longitude = &long.Float64
		}

		master[o.SpeciesKey] = append(master[o.SpeciesKey], o)
	}
	return master, rows.Err()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
