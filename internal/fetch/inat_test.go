// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmtn/forage-engine/pkg/types"
)

// obsPage renders a results page with n dummy observations.
func obsPage(n, offset int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"uuid":"u%d"}`, offset+i)
	}
	return `{"results":[` + strings.Join(items, ",") + `]}`
}

func testConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "forage-engine/test"},
		PlaceID:    47,
		PerPage:    2,
		PageDelay:  0,
	}
}

func TestTaxonIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Rubus allegheniensis", r.URL.Query().Get("q"))
		w.Write([]byte(`{"results":[{"id":53453},{"id":914922}]}`))
	}))
	defer ts.Close()

	orig := taxaBase
	taxaBase = ts.URL
	defer func() { taxaBase = orig }()

	client := &Client{HTTP: ts.Client()}
	ids, err := client.TaxonIDs(context.Background(), "Rubus allegheniensis", testConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{53453, 914922}, ids)
}

func TestTaxonIDs_NoMatches(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	orig := taxaBase
	taxaBase = ts.URL
	defer func() { taxaBase = orig }()

	client := &Client{HTTP: ts.Client()}
	ids, err := client.TaxonIDs(context.Background(), "Nonesuchia", testConfig())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestObservations_PaginatesUntilShortPage(t *testing.T) {
	var pages []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		pages = append(pages, q.Get("page"))
		assert.Equal(t, "47", q.Get("place_id"))
		assert.Equal(t, "research,needs_id", q.Get("quality_grade"))
		assert.Equal(t, "false", q.Get("captive"))
		assert.Equal(t, "true", q.Get("geo"))

		switch q.Get("page") {
		case "1":
			w.Write([]byte(obsPage(2, 0)))
		case "2":
			w.Write([]byte(obsPage(1, 2)))
		default:
			t.Errorf("unexpected page request %q", q.Get("page"))
		}
	}))
	defer ts.Close()

	orig := observationsBase
	observationsBase = ts.URL
	defer func() { observationsBase = orig }()

	client := &Client{HTTP: ts.Client()}
	obs, err := client.Observations(context.Background(), 53453, testConfig())
	require.NoError(t, err)

	assert.Len(t, obs, 3)
	assert.Equal(t, []string{"1", "2"}, pages)
}

func TestObservations_ExactBoundaryMakesOneEmptyCheck(t *testing.T) {
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(obsPage(2, 0)))
			return
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	orig := observationsBase
	observationsBase = ts.URL
	defer func() { observationsBase = orig }()

	client := &Client{HTTP: ts.Client()}
	obs, err := client.Observations(context.Background(), 1, testConfig())
	require.NoError(t, err)

	// A full final page cannot be told from a continued result set, so
	// one extra request observes the empty page and stops.
	assert.Len(t, obs, 2)
	assert.Equal(t, 2, requests)
}

func TestObservations_Non200KeepsPartialResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(obsPage(2, 0)))
			return
		}
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	orig := observationsBase
	observationsBase = ts.URL
	defer func() { observationsBase = orig }()

	client := &Client{HTTP: ts.Client()}
	obs, err := client.Observations(context.Background(), 1, testConfig())
	require.NoError(t, err)

	assert.Len(t, obs, 2)
}

func TestObservations_RawObjectsPreserved(t *testing.T) {
	raw := `{"uuid":"x1","taxon":{"name":"Rubus allegheniensis"},"extra":{"nested":true}}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[` + raw + `]}`))
	}))
	defer ts.Close()

	orig := observationsBase
	observationsBase = ts.URL
	defer func() { observationsBase = orig }()

	client := &Client{HTTP: ts.Client()}
	obs, err := client.Observations(context.Background(), 1, testConfig())
	require.NoError(t, err)
	require.Len(t, obs, 1)

	// Pagination must not reshape the raw records.
	var got, want map[string]any
	require.NoError(t, json.Unmarshal(obs[0], &got))
	require.NoError(t, json.Unmarshal([]byte(raw), &want))
	assert.Equal(t, want, got)
}

func TestObservations_PerPageDefault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		per, err := strconv.Atoi(r.URL.Query().Get("per_page"))
		require.NoError(t, err)
		assert.Equal(t, 200, per)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	orig := observationsBase
	observationsBase = ts.URL
	defer func() { observationsBase = orig }()

	cfg := testConfig()
	cfg.PerPage = 0

	client := &Client{HTTP: ts.Client()}
	_, err := client.Observations(context.Background(), 1, cfg)
	require.NoError(t, err)
}
