package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "forage-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the observation fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PlaceID restricts observation queries to one region
	// (47 is Vermont in the iNaturalist place registry).
	PlaceID int `json:"place_id" yaml:"place_id"`

	// PerPage is the fixed observation page size. The pagination loop
	// terminates when a page returns fewer results than this.
	PerPage int `json:"per_page" yaml:"per_page"`

	// PageDelay is the pause between successive page requests, kept to
	// respect the API's rate limits (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// CacheDir is the directory holding one JSON file per species.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// CompileConfig holds settings for the compile stage.
type CompileConfig struct {
	// CacheDir is the directory of per-species JSON files written by fetch.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// SnapshotPath is the consolidated snapshot database file.
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`
}

// QueryConfig holds paths to the snapshot and reference tables the
// query engine loads at startup.
type QueryConfig struct {
	// SnapshotPath is the consolidated snapshot database file.
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`

	// SpeciesFile is the curated species metadata CSV.
	SpeciesFile string `json:"species_file" yaml:"species_file"`

	// BookmarksFile is the saved coordinate bookmarks CSV.
	BookmarksFile string `json:"bookmarks_file" yaml:"bookmarks_file"`
}

// FindsConfig holds settings for the personal foraging log.
// The log is a single CSV file with no concurrency control: two
// concurrent writers can silently drop each other's appends, so access
// is single-user, single-session only.
type FindsConfig struct {
	// Path is the personal finds CSV file.
	Path string `json:"path" yaml:"path"`
}

// ReportConfig holds settings for report generation.
type ReportConfig struct {
	// OutputDir is the directory for generated HTML reports.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Compile CompileConfig `json:"compile" yaml:"compile"`
	Query   QueryConfig   `json:"query" yaml:"query"`
	Finds   FindsConfig   `json:"finds" yaml:"finds"`
	Report  ReportConfig  `json:"report" yaml:"report"`
}
