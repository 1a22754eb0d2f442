// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refdata loads the small reference tables the query engine
// needs: the curated species list and the saved coordinate bookmarks.
// Both are plain CSV files addressed by header name, tolerant of column
// reordering.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/greenmtn/forage-engine/pkg/types"
)

// LoadSpecies reads the curated species metadata table. Missing
// conservation and edibility scores coerce to 0 so the numeric filters
// can always apply.
func LoadSpecies(path string) ([]types.SpeciesRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening species table: %w", err)
	}
	defer f.Close()

	records, err := ReadSpecies(f)
	if err != nil {
		return nil, fmt.Errorf("reading species table %s: %w", path, err)
	}
	return records, nil
}

// ReadSpecies parses the species metadata CSV from r.
func ReadSpecies(r io.Reader) ([]types.SpeciesRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := headerIndex(header)
	for _, required := range []string{"scientific_name", "genus", "season"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var out []types.SpeciesRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		out = append(out, types.SpeciesRecord{
			ScientificName: get("scientific_name"),
			Genus:          get("genus"),
			CommonName:     get("common_name"),
			IDDifficulty:   ordinal(get("id_difficulty")),
			Conservation:   ordinal(get("conservation")),
			SayerRating:    ordinal(get("sayer_rating")),
			Season:         get("season"),
			PlantPart:      get("plant_part"),
			PageNumber:     get("page_number"),
			SayerName:      get("sayer_name"),
		})
	}
	return out, nil
}

// DistinctScientificNames returns the deduplicated scientific names in
// table order; this is the species list the fetcher walks.
func DistinctScientificNames(records []types.SpeciesRecord) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, r := range records {
		if r.ScientificName == "" || seen[r.ScientificName] {
			continue
		}
		seen[r.ScientificName] = true
		out = append(out, r.ScientificName)
	}
	return out
}

// DistinctSeasons returns the season labels present in the table, in
// first-seen order. The season expansion's "year" token resolves
// against this set.
func DistinctSeasons(records []types.SpeciesRecord) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, r := range records {
		if r.Season == "" || seen[r.Season] {
			continue
		}
		seen[r.Season] = true
		out = append(out, r.Season)
	}
	return out
}

func headerIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return col
}

// ordinal parses an ordinal score cell. Empty cells and unparseable
// values coerce to 0; the source table stores some scores as floats.
func ordinal(s string) int {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
