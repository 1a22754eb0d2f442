// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Observation is one naturalist sighting after compilation: nested API
// fields are flattened to scalars and the combined "lat,long" location
// string is split into numeric coordinates.
type Observation struct {
	// UUID is the globally unique observation identifier assigned by the
	// observation API. Unique within a compiled snapshot.
	UUID string `json:"uuid" yaml:"uuid"`

	// SpeciesKey is the curated-list key the observation was fetched
	// under. Observations for several taxon IDs can share one key.
	SpeciesKey string `json:"species_key" yaml:"species_key"`

	// ScientificName is the binomial from the nested taxon record.
	// Empty for genus-level sightings.
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`

	// Genus is derived from ScientificName at compile time.
	Genus string `json:"genus" yaml:"genus"`

	// CommonName is the preferred common name from the nested taxon record.
	CommonName string `json:"common_name" yaml:"common_name"`

	// QualityGrade is the API-assigned identification confidence tier.
	QualityGrade string `json:"quality_grade" yaml:"quality_grade"`

	// ObservedAt is the observation timestamp. Rows where it cannot be
	// derived are dropped during compilation, so it is always set in a
	// snapshot; it stays a pointer because pre-finish rows may lack it.
	ObservedAt *time.Time `json:"observed_at" yaml:"observed_at"`

	// Location is the raw "lat,long" string as returned by the API.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Description is the free-text note attached by the observer.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// TaxonID is the API taxon the observation was queried under.
	TaxonID string `json:"taxon_id" yaml:"taxon_id"`

	// Latitude and Longitude are split from Location. Nil when the
	// location string was absent or unparseable; such rows never reach
	// the map-rendering input set.
	Latitude  *float64 `json:"lat" yaml:"lat"`
	Longitude *float64 `json:"long" yaml:"long"`
}

// HasCoordinates reports whether both coordinates were derived.
func (o Observation) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}
