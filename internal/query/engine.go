// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"sort"

	"github.com/greenmtn/forage-engine/pkg/types"
)

// Bounds is an inclusive latitude/longitude bounding box.
type Bounds struct {
	MinLat  float64
	MaxLat  float64
	MinLong float64
	MaxLong float64
}

// Contains reports whether the point lies inside the box, edges
// included.
func (b Bounds) Contains(lat, long float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		long >= b.MinLong && long <= b.MaxLong
}

// Filters selects a slice of the snapshot. Zero-length slices and nil
// pointers mean "no constraint"; MinEdibility always applies, with zero
// letting everything through.
type Filters struct {
	Genera          []string
	Seasons         []string
	PlantParts      []string
	MaxDifficulty   *int
	MaxConservation *int
	MinEdibility    int
	Bounds          *Bounds
}

// Row is one observation joined to its curated species metadata.
type Row struct {
	types.Observation

	Meta       types.SpeciesRecord
	HoverLabel string
}

// Result is the output of one engine run.
type Result struct {
	Rows            []Row
	ExpandedSeasons []string

	TotalObservations int
	UniqueSpecies     int
	UniqueGenera      int
}

// MapPoints returns the rows to plot. Every row in a Result already
// carries coordinates, so this is the full row set.
func (r Result) MapPoints() []Row {
	return r.Rows
}

// Run evaluates the filters against the snapshot and the curated
// species list.
//
// Metadata is filtered first, then observations are joined to it along
// two paths: an exact match on scientific name, and a fallback match on
// genus. The union is deduplicated by observation UUID with the
// species-path row winning, so an observation identified to species
// never degrades to its genus-level metadata. Observations without
// coordinates are dropped before the join; they cannot be mapped and
// must not inflate counts.
func Run(master map[string][]types.Observation, species []types.SpeciesRecord, f Filters) Result {
	known := distinctSeasons(species)
	meta, expanded := filterSpecies(species, f, known)

	obs := flattenMaster(master)
	obs = withCoordinates(obs, f.Bounds)

	rows := joinMeta(obs, meta)

	speciesSeen := map[string]bool{}
	generaSeen := map[string]bool{}
	for i := range rows {
		rows[i].HoverLabel = hoverLabel(rows[i])
		speciesSeen[rows[i].SpeciesKey] = true
		generaSeen[rows[i].Meta.Genus] = true
	}

	return Result{
		Rows:              rows,
		ExpandedSeasons:   expanded,
		TotalObservations: len(rows),
		UniqueSpecies:     len(speciesSeen),
		UniqueGenera:      len(generaSeen),
	}
}

func distinctSeasons(species []types.SpeciesRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range species {
		if r.Season == "" || seen[r.Season] {
			continue
		}
		seen[r.Season] = true
		out = append(out, r.Season)
	}
	sort.Strings(out)
	return out
}

func filterSpecies(species []types.SpeciesRecord, f Filters, known []string) ([]types.SpeciesRecord, []string) {
	genera := toSet(f.Genera)
	parts := toSet(f.PlantParts)

	var expanded []string
	var seasons map[string]bool
	if len(f.Seasons) > 0 {
		expanded = ExpandSeasons(f.Seasons, known)
		seasons = toSet(expanded)
	}

	var out []types.SpeciesRecord
	for _, r := range species {
		if len(genera) > 0 && !genera[r.Genus] {
			continue
		}
		if r.SayerRating < f.MinEdibility {
			continue
		}
		if len(parts) > 0 && !parts[r.PlantPart] {
			continue
		}
		if seasons != nil && !seasons[r.Season] {
			continue
		}
		if f.MaxDifficulty != nil && r.IDDifficulty > *f.MaxDifficulty {
			continue
		}
		if f.MaxConservation != nil && r.Conservation > *f.MaxConservation {
			continue
		}
		out = append(out, r)
	}
	return out, expanded
}

// flattenMaster walks species keys in sorted order and drops duplicate
// UUIDs, keeping the first occurrence. The snapshot store already
// guarantees this, but query inputs can come straight from the compiler
// too, so the engine enforces it again.
func flattenMaster(master map[string][]types.Observation) []types.Observation {
	keys := make([]string, 0, len(master))
	for k := range master {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := map[string]bool{}
	var out []types.Observation
	for _, k := range keys {
		for _, o := range master[k] {
			if seen[o.UUID] {
				continue
			}
			seen[o.UUID] = true
			out = append(out, o)
		}
	}
	return out
}

func withCoordinates(obs []types.Observation, b *Bounds) []types.Observation {
	var out []types.Observation
	for _, o := range obs {
		if !o.HasCoordinates() {
			continue
		}
		if b != nil && !b.Contains(*o.Latitude, *o.Longitude) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// joinMeta attaches filtered metadata to observations along the species
// path and then the genus path, deduplicating the union by UUID with
// keep-first semantics.
func joinMeta(obs []types.Observation, meta []types.SpeciesRecord) []Row {
	bySci := map[string]types.SpeciesRecord{}
	byGenus := map[string]types.SpeciesRecord{}
	for _, m := range meta {
		if _, ok := bySci[m.ScientificName]; !ok {
			bySci[m.ScientificName] = m
		}
		if _, ok := byGenus[m.Genus]; !ok {
			byGenus[m.Genus] = m
		}
	}

	seen := map[string]bool{}
	var rows []Row
	for _, o := range obs {
		m, ok := bySci[o.ScientificName]
		if !ok || seen[o.UUID] {
			continue
		}
		seen[o.UUID] = true
		rows = append(rows, Row{Observation: o, Meta: m})
	}
	for _, o := range obs {
		m, ok := byGenus[o.Genus]
		if !ok || seen[o.UUID] {
			continue
		}
		seen[o.UUID] = true
		rows = append(rows, Row{Observation: o, Meta: m})
	}
	return rows
}

// hoverLabel prefers the observation's own common name and falls back
// through the curated one to the scientific name.
func hoverLabel(r Row) string {
	if r.CommonName != "" {
		return r.CommonName
	}
	if r.Meta.CommonName != "" {
		return r.Meta.CommonName
	}
	return r.ScientificName
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
