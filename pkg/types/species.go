// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Fine-grained season labels used in the curated species list, plus the
// catch-all "year" for species harvestable in any season.
const (
	SeasonEarlySpring = "early_spring"
	SeasonMidSpring   = "mid_spring"
	SeasonLateSpring  = "late_spring"
	SeasonEarlySummer = "early_summer"
	SeasonMidSummer   = "mid_summer"
	SeasonLateSummer  = "late_summer"
	SeasonEarlyFall   = "early_fall"
	SeasonMidFall     = "mid_fall"
	SeasonLateFall    = "late_fall"
	SeasonEarlyWinter = "early_winter"
	SeasonMidWinter   = "mid_winter"
	SeasonLateWinter  = "late_winter"
	SeasonYear        = "year"
)

// SpeciesRecord is one row of the curated species list. Reference data:
// loaded once at startup and never mutated.
type SpeciesRecord struct {
	// ScientificName is the curated binomial (or bare genus) name.
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`

	// Genus groups related curated entries for genus-level matching.
	Genus string `json:"genus" yaml:"genus"`

	// CommonName lists one or more common names for the entry.
	CommonName string `json:"common_name" yaml:"common_name"`

	// IDDifficulty is an ordinal identification-difficulty score, 1-3.
	IDDifficulty int `json:"id_difficulty" yaml:"id_difficulty"`

	// Conservation is an ordinal sensitivity score, 0-3. Non-native
	// species have no score in the source table and coerce to 0.
	Conservation int `json:"conservation" yaml:"conservation"`

	// SayerRating is an ordinal edibility score, 0-3. Entries used only
	// for seasoning or steeped beverages carry no score and coerce to 0.
	SayerRating int `json:"sayer_rating" yaml:"sayer_rating"`

	// Season is one of the season label constants above.
	Season string `json:"season" yaml:"season"`

	// PlantPart names the edible part this entry describes.
	PlantPart string `json:"plant_part" yaml:"plant_part"`

	// PageNumber is the field-guide page reference.
	PageNumber string `json:"page_number" yaml:"page_number"`

	// SayerName is the field guide's preferred common name, used when
	// logging personal finds.
	SayerName string `json:"sayer_name" yaml:"sayer_name"`
}
