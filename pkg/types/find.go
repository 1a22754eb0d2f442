// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Find is one entry in the personal foraging log. The log is an
// append-only flat store with no uniqueness constraint.
type Find struct {
	// Species is the scientific name of the find.
	Species string `json:"species" yaml:"species"`

	// CommonName is the curated common name looked up at entry time.
	CommonName string `json:"common_name" yaml:"common_name"`

	// Date is the find date as an ISO date string (YYYY-MM-DD).
	Date string `json:"date" yaml:"date"`

	// Lat and Lon locate the find.
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`

	// Notes is free text about the site or harvest.
	Notes string `json:"notes" yaml:"notes"`

	// Quantity is a free-form amount, e.g. "2 lbs" or "50+ individuals".
	Quantity string `json:"quantity" yaml:"quantity"`

	// Rating is a 0-5 quality rating.
	Rating int `json:"rating" yaml:"rating"`

	// AddedOn is the creation timestamp string (YYYY-MM-DD HH:MM:SS).
	AddedOn string `json:"added_on" yaml:"added_on"`
}

// Bookmark is a named coordinate bounding box saved from the map view.
// Name is the unique key.
type Bookmark struct {
	Name    string  `json:"name" yaml:"name"`
	MinLat  float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat  float64 `json:"max_lat" yaml:"max_lat"`
	MinLong float64 `json:"min_long" yaml:"min_long"`
	MaxLong float64 `json:"max_long" yaml:"max_long"`
}
