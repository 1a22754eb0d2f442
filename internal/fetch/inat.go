// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads naturalist observation records and caches
// them as one JSON file per curated species. A species whose cache file
// already exists is skipped, which makes multi-session downloads
// resumable at species granularity.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/greenmtn/forage-engine/internal/httputil"
	"github.com/greenmtn/forage-engine/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute an httptest
// server.
var (
	taxaBase         = "https://api.inaturalist.org/v1/taxa"
	observationsBase = "https://api.inaturalist.org/v1/observations"
)

// Client queries the observation API.
type Client struct {
	HTTP *http.Client
}

// TaxonIDs resolves a scientific name to the taxon IDs the API knows it
// under. Polysemous names and synonyms can match several taxa; all of
// them are returned, in API order. Zero matches is not an error.
func (c *Client) TaxonIDs(ctx context.Context, name string, cfg types.FetchConfig) ([]int, error) {
	params := url.Values{"q": {name}}
	reqURL := taxaBase + "?" + params.Encode()

	var body struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	status, err := httputil.GetJSON(ctx, c.HTTP, reqURL, cfg.UserAgent, &body)
	if err != nil {
		return nil, fmt.Errorf("taxa lookup for %q: %w", name, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("taxa lookup for %q: HTTP %d", name, status)
	}

	ids := make([]int, 0, len(body.Results))
	for _, r := range body.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// Observations pages the observation-search endpoint for one taxon and
// returns the raw observation objects as received. The loop stops when
// a page returns fewer results than the page size. A fixed delay is
// inserted between page requests; there is no backoff and no retry.
//
// A non-200 response aborts pagination and returns whatever pages were
// already accumulated with a nil error (partial-result policy). Only
// transport and decode failures surface as errors.
func (c *Client) Observations(ctx context.Context, taxonID int, cfg types.FetchConfig) ([]json.RawMessage, error) {
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 200
	}

	var all []json.RawMessage
	for page := 1; ; page++ {
		params := url.Values{
			"taxon_id":      {strconv.Itoa(taxonID)},
			"place_id":      {strconv.Itoa(cfg.PlaceID)},
			"per_page":      {strconv.Itoa(perPage)},
			"page":          {strconv.Itoa(page)},
			"quality_grade": {"research,needs_id"},
			"captive":       {"false"},
			"geo":           {"true"},
		}
		reqURL := observationsBase + "?" + params.Encode()

		var body struct {
			Results []json.RawMessage `json:"results"`
		}
		status, err := httputil.GetJSON(ctx, c.HTTP, reqURL, cfg.UserAgent, &body)
		if err != nil {
			return nil, fmt.Errorf("observations page %d for taxon %d: %w", page, taxonID, err)
		}
		if status != http.StatusOK {
			slog.Warn("Observation page request failed, keeping partial results",
				"taxon_id", taxonID, "page", page, "status", status)
			return all, nil
		}

		all = append(all, body.Results...)

		if len(body.Results) < perPage {
			return all, nil
		}

		if cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(cfg.PageDelay):
			}
		}
	}
}
