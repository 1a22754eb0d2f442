package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenmtn/forage-engine/internal/query"
	"github.com/greenmtn/forage-engine/internal/refdata"
	"github.com/greenmtn/forage-engine/internal/report"
	"github.com/greenmtn/forage-engine/internal/snapshot"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter the snapshot and summarize matching observations",
	Long: `Query loads the snapshot and the curated species CSV, applies the selected
filters, and prints a summary of the matching observations. Season tokens
expand before matching: "growing", "dormant", bare quarter names, and "year"
all select groups of fine-grained season labels. Use --csv to also export
the matching rows.`,
	RunE: runQuery,
}

func init() {
	addFilterFlags(queryCmd)
	queryCmd.Flags().String("csv", "", "write matching observations to this CSV file")

	rootCmd.AddCommand(queryCmd)
}

// addFilterFlags registers the shared filter flag set. query and report
// accept identical filters.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("genus", nil, "restrict to these genera")
	cmd.Flags().StringSlice("season", nil, "restrict to these season tokens")
	cmd.Flags().Bool("now", false, "restrict to the current season")
	cmd.Flags().StringSlice("part", nil, "restrict to these edible plant parts")
	cmd.Flags().Int("max-difficulty", 0, "maximum identification difficulty, 1-3 (0 = no cap)")
	cmd.Flags().Int("max-conservation", 0, "maximum conservation concern, 1-3 (0 = no cap)")
	cmd.Flags().Int("min-edibility", 0, "minimum edibility rating, 0-3")
	cmd.Flags().String("bbox", "", "bounding box as min_lat,max_lat,min_long,max_long")
	cmd.Flags().String("bookmark", "", "use a saved coordinate bookmark as the bounding box")
	cmd.Flags().String("snapshot", "", "snapshot database file")
	cmd.Flags().String("species-file", "", "curated species CSV")
}

func runQuery(cmd *cobra.Command, args []string) error {
	res, err := evaluateFilters(cmd)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, res)

	csvPath, _ := cmd.Flags().GetString("csv")
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("writing query CSV: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s rows to %s\n",
			humanize.Comma(int64(len(res.Rows))), csvPath)
	}
	return nil
}

// evaluateFilters builds a filter set from the shared flags, loads the
// snapshot and species metadata, and runs the engine.
func evaluateFilters(cmd *cobra.Command) (query.Result, error) {
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	if snapshotPath == "" {
		snapshotPath = viper.GetString("snapshot_path")
	}
	speciesFile, _ := cmd.Flags().GetString("species-file")
	if speciesFile == "" {
		speciesFile = viper.GetString("species_file")
	}

	species, err := refdata.LoadSpecies(speciesFile)
	if err != nil {
		return query.Result{}, err
	}

	store, err := snapshot.Open(snapshotPath)
	if err != nil {
		return query.Result{}, err
	}
	defer store.Close()
	master, err := store.Load()
	if err != nil {
		return query.Result{}, err
	}

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return query.Result{}, err
	}
	return query.Run(master, species, filters), nil
}

func filtersFromFlags(cmd *cobra.Command) (query.Filters, error) {
	var f query.Filters
	f.Genera, _ = cmd.Flags().GetStringSlice("genus")
	f.Seasons, _ = cmd.Flags().GetStringSlice("season")
	f.PlantParts, _ = cmd.Flags().GetStringSlice("part")
	f.MinEdibility, _ = cmd.Flags().GetInt("min-edibility")

	if now, _ := cmd.Flags().GetBool("now"); now {
		f.Seasons = append(f.Seasons, query.CurrentSeason(time.Now()))
	}
	if v, _ := cmd.Flags().GetInt("max-difficulty"); v > 0 {
		f.MaxDifficulty = &v
	}
	if v, _ := cmd.Flags().GetInt("max-conservation"); v > 0 {
		f.MaxConservation = &v
	}

	bbox, _ := cmd.Flags().GetString("bbox")
	bookmark, _ := cmd.Flags().GetString("bookmark")
	switch {
	case bbox != "" && bookmark != "":
		return f, fmt.Errorf("--bbox and --bookmark are mutually exclusive")
	case bbox != "":
		b, err := parseBounds(bbox)
		if err != nil {
			return f, err
		}
		f.Bounds = b
	case bookmark != "":
		bookmarksFile := viper.GetString("bookmarks_file")
		saved, err := refdata.LoadBookmarks(bookmarksFile)
		if err != nil {
			return f, err
		}
		b, ok := refdata.FindBookmark(saved, bookmark)
		if !ok {
			return f, fmt.Errorf("no bookmark named %q in %s", bookmark, bookmarksFile)
		}
		f.Bounds = &query.Bounds{
			MinLat: b.MinLat, MaxLat: b.MaxLat,
			MinLong: b.MinLong, MaxLong: b.MaxLong,
		}
	}
	return f, nil
}

func parseBounds(s string) (*query.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox needs four comma-separated values, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox value %q: %w", p, err)
		}
		vals[i] = v
	}
	return &query.Bounds{MinLat: vals[0], MaxLat: vals[1], MinLong: vals[2], MaxLong: vals[3]}, nil
}

func printSummary(w *os.File, res query.Result) {
	if len(res.ExpandedSeasons) > 0 {
		fmt.Fprintf(w, "Seasons: %s\n", strings.Join(res.ExpandedSeasons, ", "))
	}
	fmt.Fprintf(w, "Observations: %s  Species: %s  Genera: %s\n",
		humanize.Comma(int64(res.TotalObservations)),
		humanize.Comma(int64(res.UniqueSpecies)),
		humanize.Comma(int64(res.UniqueGenera)))

	table := query.SpeciesTable(res.Rows)
	for _, row := range table {
		name := row.ScientificName
		if row.CommonName != "" {
			name = fmt.Sprintf("%s (%s)", row.ScientificName, row.CommonName)
		}
		fmt.Fprintf(w, "  %-60s %6d  %s\n", name, row.Count, row.EdibleParts)
	}
}
