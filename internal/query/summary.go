// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"sort"
	"strings"
)

// Count is a name with an occurrence count, used for the per-species
// and per-genus breakdowns.
type Count struct {
	Name  string
	Count int
}

// SpeciesCounts tallies result rows by observation scientific name,
// most observed first. Rows with no scientific name are skipped.
func SpeciesCounts(rows []Row) []Count {
	return tally(rows, func(r Row) string { return r.ScientificName })
}

// GenusCounts tallies result rows by metadata genus, most observed
// first.
func GenusCounts(rows []Row) []Count {
	return tally(rows, func(r Row) string { return r.Meta.Genus })
}

func tally(rows []Row, key func(Row) string) []Count {
	counts := map[string]int{}
	for _, r := range rows {
		if k := key(r); k != "" {
			counts[k]++
		}
	}
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TableRow is one line of the detailed species table.
type TableRow struct {
	ScientificName string
	CommonName     string
	Genus          string
	PageNumber     string
	Season         string
	SayerRating    int
	EdibleParts    string
	Count          int
}

// SpeciesTable groups result rows by curated scientific name and
// aggregates the edible plant parts seen for each, comma separated.
// Ordered by count descending, then name.
func SpeciesTable(rows []Row) []TableRow {
	type group struct {
		row   TableRow
		parts map[string]bool
	}
	groups := map[string]*group{}
	var order []string

	for _, r := range rows {
		name := r.Meta.ScientificName
		if name == "" {
			continue
		}
		g, ok := groups[name]
		if !ok {
			g = &group{
				row: TableRow{
					ScientificName: name,
					CommonName:     r.Meta.CommonName,
					Genus:          r.Meta.Genus,
					PageNumber:     r.Meta.PageNumber,
					Season:         r.Meta.Season,
					SayerRating:    r.Meta.SayerRating,
				},
				parts: map[string]bool{},
			}
			groups[name] = g
			order = append(order, name)
		}
		g.row.Count++
		if r.Meta.PlantPart != "" {
			g.parts[r.Meta.PlantPart] = true
		}
	}

	out := make([]TableRow, 0, len(order))
	for _, name := range order {
		g := groups[name]
		parts := make([]string, 0, len(g.parts))
		for p := range g.parts {
			parts = append(parts, p)
		}
		sort.Strings(parts)
		g.row.EdibleParts = strings.Join(parts, ", ")
		out = append(out, g.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ScientificName < out[j].ScientificName
	})
	return out
}
