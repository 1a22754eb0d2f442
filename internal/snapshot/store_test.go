// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmtn/forage-engine/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func sampleObservation(uuid, key string) types.Observation {
	t := time.Date(2023, 8, 15, 10, 0, 0, 0, time.UTC)
	return types.Observation{
		UUID:           uuid,
		SpeciesKey:     key,
		ScientificName: "Rubus allegheniensis",
		Genus:          "Rubus",
		CommonName:     "Allegheny blackberry",
		QualityGrade:   "research",
		ObservedAt:     &t,
		Location:       "44.1,-72.5",
		TaxonID:        "101",
		Latitude:       ptr(44.1),
		Longitude:      ptr(-72.5),
	}
}

func TestStore_WriteLoadRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	defer store.Close()

	master := map[string][]types.Observation{
		"Rubus": {sampleObservation("r1", "Rubus"), sampleObservation("r2", "Rubus")},
		"Allium tricoccum": {
			sampleObservation("a1", "Allium tricoccum"),
		},
	}
	require.NoError(t, store.Write(master))

	got, err := store.Load()
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Len(t, got["Rubus"], 2)
	assert.Len(t, got["Allium tricoccum"], 1)

	r := got["Rubus"][0]
	assert.Equal(t, "Rubus allegheniensis", r.ScientificName)
	require.NotNil(t, r.ObservedAt)
	assert.True(t, r.ObservedAt.Equal(time.Date(2023, 8, 15, 10, 0, 0, 0, time.UTC)))
	require.True(t, r.HasCoordinates())
	assert.InDelta(t, 44.1, *r.Latitude, 1e-9)
}

func TestStore_WriteReplacesPreviousSnapshot(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write(map[string][]types.Observation{
		"Rubus": {sampleObservation("r1", "Rubus")},
	}))
	require.NoError(t, store.Write(map[string][]types.Observation{
		"Allium": {sampleObservation("a1", "Allium")},
	}))

	got, err := store.Load()
	require.NoError(t, err)

	assert.NotContains(t, got, "Rubus")
	assert.Len(t, got["Allium"], 1)
}

func TestStore_DuplicateUUIDKeepsFirst(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	defer store.Close()

	first := sampleObservation("x1", "Allium")
	second := sampleObservation("x1", "Rubus")
	second.ScientificName = "Rubus odoratus"

	require.NoError(t, store.Write(map[string][]types.Observation{
		"Allium": {first},
		"Rubus":  {second},
	}))

	got, err := store.Load()
	require.NoError(t, err)

	// One row total; "Allium" sorts before "Rubus", so its insert wins.
	require.Len(t, got["Allium"], 1)
	assert.NotContains(t, got, "Rubus")
	assert.Equal(t, "Rubus allegheniensis", got["Allium"][0].ScientificName)
}

func TestStore_NullCoordinatesSurvive(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	defer store.Close()

	o := sampleObservation("n1", "Allium")
	o.Latitude = nil
	o.Longitude = nil
	o.Location = ""

	require.NoError(t, store.Write(map[string][]types.Observation{"Allium": {o}}))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got["Allium"], 1)
	assert.False(t, got["Allium"][0].HasCoordinates())
}

func TestStore_SkipsRowsWithoutTimestamp(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	defer store.Close()

	o := sampleObservation("t1", "Allium")
	o.ObservedAt = nil

	require.NoError(t, store.Write(map[string][]types.Observation{"Allium": {o}}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
