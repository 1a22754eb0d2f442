// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile merges per-species cache files into the consolidated
// observation table. Nested taxon records are flattened to scalar
// fields, genus is derived from the scientific name, per-species filter
// policies are applied, and every species' rows go through one
// finishing step: deduplicate by uuid keeping the first row, then drop
// rows without an observation timestamp.
package compile

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnparser"

	"github.com/greenmtn/forage-engine/pkg/types"
)

// rawObservation is the subset of an API observation record the
// pipeline consumes. Unknown fields in the cache are ignored.
type rawObservation struct {
	UUID           string `json:"uuid"`
	QualityGrade   string `json:"quality_grade"`
	TimeObservedAt string `json:"time_observed_at"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Taxon          *struct {
		Name                string `json:"name"`
		PreferredCommonName string `json:"preferred_common_name"`
	} `json:"taxon"`
}

// Compile reads every per-species cache file in cacheDir and returns
// the consolidated mapping from species key to its observation rows.
// Every run recompiles from all cached files; there is no incremental
// mode. Unreadable cache files are logged and skipped.
func Compile(cacheDir string, w io.Writer) (map[string][]types.Observation, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("reading cache dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	parser := gnparser.New(gnparser.NewConfig())
	master := make(map[string][]types.Observation, len(files))

	bar := newProgressBar(len(files), "Compiling ")
	total := 0
	for _, name := range files {
		key := speciesKey(name)

		rows, err := compileSpecies(parser, filepath.Join(cacheDir, name), key)
		if err != nil {
			slog.Warn("Skipping unreadable cache file", "file", name, "error", err)
			bar.Increment()
			continue
		}

		master[key] = rows
		total += len(rows)
		bar.Increment()
	}
	bar.Finish()

	fmt.Fprintf(w, "Compiled %s observation(s) across %d species\n",
		humanize.Comma(int64(total)), len(master))
	return master, nil
}

// speciesKey recovers the species key from a cache file name; the
// fetcher replaced spaces with underscores when writing.
func speciesKey(filename string) string {
	stem := strings.TrimSuffix(filename, ".json")
	return strings.ReplaceAll(stem, "_", " ")
}

func compileSpecies(parser gnparser.GNparser, path, key string) ([]types.Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var byTaxon map[string][]json.RawMessage
	enc := gnfmt.GNjson{}
	if err := enc.Decode(data, &byTaxon); err != nil {
		return nil, fmt.Errorf("decoding cache: %w", err)
	}

	// Taxon IDs in sorted order so keep-first dedup is deterministic.
	taxonIDs := make([]string, 0, len(byTaxon))
	for id := range byTaxon {
		taxonIDs = append(taxonIDs, id)
	}
	sort.Strings(taxonIDs)

	policy, err := ResolvePolicy(key)
	if err != nil {
		return nil, err
	}

	var rows []types.Observation
	for _, taxonID := range taxonIDs {
		for _, raw := range byTaxon[taxonID] {
			obs, err := flatten(parser, raw, key, taxonID)
			if err != nil {
				slog.Warn("Skipping malformed observation", "species", key, "error", err)
				continue
			}
			if policy.Match(obs) {
				rows = append(rows, obs)
			}
		}
	}

	return finish(rows), nil
}

// flatten converts one raw API observation into a flat row. An absent
// taxon sub-object or location string degrades to empty derived fields,
// not an error.
func flatten(parser gnparser.GNparser, raw json.RawMessage, key, taxonID string) (types.Observation, error) {
	var r rawObservation
	if err := json.Unmarshal(raw, &r); err != nil {
		return types.Observation{}, err
	}

	obs := types.Observation{
		UUID:         r.UUID,
		SpeciesKey:   key,
		QualityGrade: r.QualityGrade,
		Location:     r.Location,
		Description:  r.Description,
		TaxonID:      taxonID,
	}

	if r.Taxon != nil {
		obs.ScientificName = r.Taxon.Name
		obs.CommonName = r.Taxon.PreferredCommonName
		obs.Genus = deriveGenus(parser, r.Taxon.Name)
	}

	if r.TimeObservedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.TimeObservedAt); err == nil {
			obs.ObservedAt = &t
		}
	}

	if r.Location != "" {
		latStr, longStr, found := strings.Cut(r.Location, ",")
		if found {
			if lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64); err == nil {
				obs.Latitude = &lat
			}
			if long, err := strconv.ParseFloat(strings.TrimSpace(longStr), 64); err == nil {
				obs.Longitude = &long
			}
		}
	}

	return obs, nil
}

// deriveGenus extracts the genus from a scientific name. Names the
// parser understands use the canonical form; anything else falls back
// to the first whitespace-delimited token.
func deriveGenus(parser gnparser.GNparser, name string) string {
	if name == "" {
		return ""
	}
	parsed := parser.ParseName(name)
	if parsed.Parsed && parsed.Canonical != nil {
		genus, _, _ := strings.Cut(parsed.Canonical.Simple, " ")
		if genus != "" {
			return genus
		}
	}
	genus, _, _ := strings.Cut(name, " ")
	return genus
}

// finish is the single post-filter finishing step every species goes
// through regardless of which policy applied: deduplicate by uuid
// keeping the first row, then drop rows lacking an observation
// timestamp.
func finish(rows []types.Observation) []types.Observation {
	seen := make(map[string]bool, len(rows))
	out := make([]types.Observation, 0, len(rows))
	for _, r := range rows {
		if seen[r.UUID] {
			continue
		}
		seen[r.UUID] = true
		if r.ObservedAt == nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// newProgressBar creates a progress bar with consistent settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
