package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenmtn/forage-engine/internal/fetch"
	"github.com/greenmtn/forage-engine/internal/refdata"
	"github.com/greenmtn/forage-engine/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultPageDelay = 1 * time.Second
	defaultUserAgent = "forage-engine/0.1"

	// Vermont in the iNaturalist place registry.
	defaultPlaceID = 47
	defaultPerPage = 200
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [species...]",
	Short: "Download iNaturalist observations into the species cache",
	Long: `Fetch downloads research-grade and needs-id observations for each target
species and writes one JSON file per species to the cache directory. Species
with an existing cache file are skipped, so an interrupted run resumes where
it left off. With no arguments the target list is every scientific name in
the curated species CSV.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	fetchCmd.Flags().Duration("page-delay", 0, "delay between consecutive page requests (default 1s)")
	fetchCmd.Flags().String("cache-dir", "", "directory for per-species cache files")
	fetchCmd.Flags().String("species-file", "", "curated species CSV providing the target list")
	fetchCmd.Flags().Int("place-id", defaultPlaceID, "iNaturalist place filter")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("page-delay")
	if delay == 0 {
		delay = defaultPageDelay
	}
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	if cacheDir == "" {
		cacheDir = viper.GetString("cache_dir")
	}
	placeID, _ := cmd.Flags().GetInt("place-id")

	speciesList := args
	if len(speciesList) == 0 {
		speciesFile, _ := cmd.Flags().GetString("species-file")
		if speciesFile == "" {
			speciesFile = viper.GetString("species_file")
		}
		records, err := refdata.LoadSpecies(speciesFile)
		if err != nil {
			return err
		}
		speciesList = refdata.DistinctScientificNames(records)
	}
	if len(speciesList) == 0 {
		return fmt.Errorf("no target species: pass names as arguments or provide a species CSV")
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		PlaceID:   placeID,
		PerPage:   defaultPerPage,
		PageDelay: delay,
		CacheDir:  cacheDir,
	}

	client := &fetch.Client{HTTP: &http.Client{Timeout: cfg.Timeout}}
	result := fetch.FetchBatch(cmd.Context(), client, speciesList, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d species failed to fetch", result.Failed)
	}
	return nil
}
