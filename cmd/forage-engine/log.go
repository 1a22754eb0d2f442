package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenmtn/forage-engine/internal/finds"
	"github.com/greenmtn/forage-engine/pkg/types"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage the personal finds log",
	Long: `Log records where and when you actually found something. Entries live in
a plain CSV file so they survive pipeline rebuilds and can be edited by hand.`,
}

var logAddCmd = &cobra.Command{
	Use:   "add <species>",
	Short: "Record a find",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogAdd,
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded finds",
	RunE:  runLogList,
}

var logDeleteCmd = &cobra.Command{
	Use:   "delete <position>",
	Short: "Delete the find at a list position",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogDelete,
}

var logImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append finds from another CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogImport,
}

var logExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Copy the finds log to another CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogExport,
}

func init() {
	logAddCmd.Flags().String("common-name", "", "common name of the find")
	logAddCmd.Flags().String("date", "", "find date as YYYY-MM-DD (default today)")
	logAddCmd.Flags().Float64("lat", 0, "latitude of the find")
	logAddCmd.Flags().Float64("lon", 0, "longitude of the find")
	logAddCmd.Flags().String("notes", "", "free-text notes")
	logAddCmd.Flags().String("quantity", "", "amount found, e.g. \"2 lbs\"")
	logAddCmd.Flags().Int("rating", 0, "quality rating, 0-5")

	logListCmd.Flags().String("sort", "date_desc", "sort order: date_desc, date_asc, species, or rating")

	logCmd.AddCommand(logAddCmd, logListCmd, logDeleteCmd, logImportCmd, logExportCmd)
	rootCmd.AddCommand(logCmd)
}

func findsStore() finds.Store {
	return finds.Store{Path: viper.GetString("finds_file")}
}

func runLogAdd(cmd *cobra.Command, args []string) error {
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}
	commonName, _ := cmd.Flags().GetString("common-name")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	notes, _ := cmd.Flags().GetString("notes")
	quantity, _ := cmd.Flags().GetString("quantity")
	rating, _ := cmd.Flags().GetInt("rating")
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}

	find := types.Find{
		Species:    args[0],
		CommonName: commonName,
		Date:       date,
		Lat:        lat,
		Lon:        lon,
		Notes:      notes,
		Quantity:   quantity,
		Rating:     rating,
	}
	if err := findsStore().Append(find); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Logged %s on %s\n", find.Species, find.Date)
	return nil
}

func runLogList(cmd *cobra.Command, args []string) error {
	all, err := findsStore().Load()
	if err != nil {
		return err
	}
	sortKey, _ := cmd.Flags().GetString("sort")
	finds.Sort(all, sortKey)

	if len(all) == 0 {
		fmt.Fprintln(os.Stdout, "No finds logged yet.")
		return nil
	}
	for i, f := range all {
		name := f.Species
		if f.CommonName != "" {
			name = fmt.Sprintf("%s (%s)", f.Species, f.CommonName)
		}
		fmt.Fprintf(os.Stdout, "%3d  %s  %-50s %d/5  %s\n", i, f.Date, name, f.Rating, f.Notes)
	}
	return nil
}

func runLogDelete(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("position must be a number: %w", err)
	}
	if err := findsStore().Delete(index); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted find at position %d\n", index)
	return nil
}

func runLogImport(cmd *cobra.Command, args []string) error {
	n, err := findsStore().Import(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d find(s) from %s\n", n, args[0])
	return nil
}

func runLogExport(cmd *cobra.Command, args []string) error {
	if err := findsStore().Export(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported finds log to %s\n", args[0])
	return nil
}
