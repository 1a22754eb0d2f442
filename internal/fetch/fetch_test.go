// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"binomial", "Rubus allegheniensis", "Rubus_allegheniensis"},
		{"bare genus", "Acorus", "Acorus"},
		{"slash", "Typha latifolia/angustifolia", "Typha_latifolia_angustifolia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

// newAPIServer serves both endpoints and counts requests per species
// query and per taxon.
func newAPIServer(t *testing.T, taxa map[string][]int) (*httptest.Server, *map[string]int) {
	t.Helper()
	counts := map[string]int{}
	mux := http.NewServeMux()
	mux.HandleFunc("/taxa", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("q")
		counts["taxa:"+name]++
		ids := taxa[name]
		out := struct {
			Results []map[string]int `json:"results"`
		}{}
		for _, id := range ids {
			out.Results = append(out.Results, map[string]int{"id": id})
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/observations", func(w http.ResponseWriter, r *http.Request) {
		counts["obs:"+r.URL.Query().Get("taxon_id")]++
		w.Write([]byte(`{"results":[{"uuid":"o1"}]}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, &counts
}

func TestFetchBatch_ResumeSkipsCachedSpecies(t *testing.T) {
	ts, counts := newAPIServer(t, map[string][]int{"Ursina C": {42}})

	origTaxa, origObs := taxaBase, observationsBase
	taxaBase = ts.URL + "/taxa"
	observationsBase = ts.URL + "/observations"
	defer func() { taxaBase, observationsBase = origTaxa, origObs }()

	dir := t.TempDir()
	// Pre-seed cache files for A and B.
	for _, sp := range []string{"Alpha a", "Beta b"} {
		require.NoError(t, os.WriteFile(CachePath(dir, sp), []byte(`{}`), 0o644))
	}

	cfg := testConfig()
	cfg.CacheDir = dir

	var buf bytes.Buffer
	client := &Client{HTTP: ts.Client()}
	result := FetchBatch(context.Background(), client, []string{"Alpha a", "Beta b", "Ursina C"}, cfg, &buf)

	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 3, result.Total())

	// No network traffic at all for the cached species.
	assert.Equal(t, 1, (*counts)["taxa:Ursina C"])
	assert.Equal(t, 1, (*counts)["obs:42"])
	assert.Zero(t, (*counts)["taxa:Alpha a"])
	assert.Zero(t, (*counts)["taxa:Beta b"])

	assert.Contains(t, buf.String(), "skipped: Alpha a")
}

func TestFetchBatch_CacheFileKeyedByTaxonID(t *testing.T) {
	ts, _ := newAPIServer(t, map[string][]int{"Rubus": {101, 202}})

	origTaxa, origObs := taxaBase, observationsBase
	taxaBase = ts.URL + "/taxa"
	observationsBase = ts.URL + "/observations"
	defer func() { taxaBase, observationsBase = origTaxa, origObs }()

	dir := t.TempDir()
	cfg := testConfig()
	cfg.CacheDir = dir

	var buf bytes.Buffer
	client := &Client{HTTP: ts.Client()}
	result := FetchBatch(context.Background(), client, []string{"Rubus"}, cfg, &buf)
	require.False(t, result.HasFailures())

	data, err := os.ReadFile(filepath.Join(dir, "Rubus.json"))
	require.NoError(t, err)

	var byTaxon map[string][]json.RawMessage
	enc := gnfmt.GNjson{}
	require.NoError(t, enc.Decode(data, &byTaxon))

	// All matched taxon IDs queried, observations kept separately.
	require.Len(t, byTaxon, 2)
	assert.Len(t, byTaxon["101"], 1)
	assert.Len(t, byTaxon["202"], 1)
}

func TestFetchBatch_NoTaxonMatchesContinues(t *testing.T) {
	ts, counts := newAPIServer(t, map[string][]int{"Beta b": {7}})

	origTaxa, origObs := taxaBase, observationsBase
	taxaBase = ts.URL + "/taxa"
	observationsBase = ts.URL + "/observations"
	defer func() { taxaBase, observationsBase = origTaxa, origObs }()

	dir := t.TempDir()
	cfg := testConfig()
	cfg.CacheDir = dir

	var buf bytes.Buffer
	client := &Client{HTTP: ts.Client()}
	result := FetchBatch(context.Background(), client, []string{"Alpha a", "Beta b"}, cfg, &buf)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Fetched)
	assert.True(t, result.HasFailures())

	// The failed species leaves no cache file behind, so the next run
	// retries it.
	_, err := os.Stat(CachePath(dir, "Alpha a"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 1, (*counts)["obs:7"])
}
