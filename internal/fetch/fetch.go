// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"

	"github.com/greenmtn/forage-engine/pkg/types"
)

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Fetched int
	Skipped int
	Failed  int
}

// Total returns the total number of species processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped + r.Failed
}

// HasFailures reports whether any species failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Slug converts a species name into a safe cache file stem.
func Slug(species string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(species)
}

// CachePath returns the cache file for a species.
func CachePath(dir, species string) string {
	return filepath.Join(dir, Slug(species)+".json")
}

// FetchSpecies resolves a species name to its taxon IDs and downloads
// the observations of every matched taxon, keyed by taxon-id string.
// Observation sets stay separate per taxon so the compiler can apply
// its own merging rules.
func FetchSpecies(ctx context.Context, client *Client, species string, cfg types.FetchConfig, w io.Writer) (map[string][]json.RawMessage, error) {
	taxonIDs, err := client.TaxonIDs(ctx, species, cfg)
	if err != nil {
		return nil, err
	}
	if len(taxonIDs) == 0 {
		return nil, fmt.Errorf("no taxon matches for %q", species)
	}
	fmt.Fprintf(w, "  %d taxon ID(s): %v\n", len(taxonIDs), taxonIDs)

	byTaxon := make(map[string][]json.RawMessage, len(taxonIDs))
	for _, id := range taxonIDs {
		obs, err := client.Observations(ctx, id, cfg)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "  taxon %d: %s observation(s)\n", id, humanize.Comma(int64(len(obs))))
		byTaxon[strconv.Itoa(id)] = obs
	}
	return byTaxon, nil
}

// FetchBatch downloads observations for every species in the list,
// writing one cache file per species. Species whose cache file already
// exists are skipped without any network traffic; this is the sole
// resume mechanism, so a species interrupted mid-download restarts from
// its first page on the next run. Per-species errors are reported and
// the run continues with the next species.
func FetchBatch(ctx context.Context, client *Client, speciesList []string, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed: cannot create cache dir: %v\n", err)
		result.Failed = len(speciesList)
		return result
	}

	for i, species := range speciesList {
		path := CachePath(cfg.CacheDir, species)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "[%d/%d] skipped: %s (already downloaded)\n", i+1, len(speciesList), species)
			result.Skipped++
			continue
		}

		fmt.Fprintf(w, "[%d/%d] fetching: %s\n", i+1, len(speciesList), species)

		byTaxon, err := FetchSpecies(ctx, client, species, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "  failed: %v\n", err)
			result.Failed++
			if ctx.Err() != nil {
				result.Failed += len(speciesList) - i - 1
				return result
			}
			continue
		}

		if err := writeCache(path, byTaxon); err != nil {
			fmt.Fprintf(w, "  failed: %v\n", err)
			result.Failed++
			continue
		}

		total := 0
		for _, obs := range byTaxon {
			total += len(obs)
		}
		fmt.Fprintf(w, "  saved %s observation(s) for %s\n", humanize.Comma(int64(total)), species)
		result.Fetched++
	}

	fmt.Fprintf(w, "\nFetched: %d, Skipped: %d, Failed: %d\n", result.Fetched, result.Skipped, result.Failed)
	return result
}

func writeCache(path string, byTaxon map[string][]json.RawMessage) error {
	enc := gnfmt.GNjson{}
	data, err := enc.Encode(byTaxon)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}
