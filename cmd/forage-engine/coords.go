package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenmtn/forage-engine/internal/refdata"
	"github.com/greenmtn/forage-engine/pkg/types"
)

var coordsCmd = &cobra.Command{
	Use:   "coords",
	Short: "Manage saved coordinate bookmarks",
	Long: `Coords saves named bounding boxes so favorite areas can be reused as
query filters with --bookmark. Bookmark names are unique.`,
}

var coordsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a bounding box under a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoordsSave,
}

var coordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved bookmarks",
	RunE:  runCoordsList,
}

func init() {
	coordsSaveCmd.Flags().Float64("min-lat", 0, "southern edge latitude")
	coordsSaveCmd.Flags().Float64("max-lat", 0, "northern edge latitude")
	coordsSaveCmd.Flags().Float64("min-long", 0, "western edge longitude")
	coordsSaveCmd.Flags().Float64("max-long", 0, "eastern edge longitude")
	coordsSaveCmd.MarkFlagRequired("min-lat")
	coordsSaveCmd.MarkFlagRequired("max-lat")
	coordsSaveCmd.MarkFlagRequired("min-long")
	coordsSaveCmd.MarkFlagRequired("max-long")

	coordsCmd.AddCommand(coordsSaveCmd, coordsListCmd)
	rootCmd.AddCommand(coordsCmd)
}

func runCoordsSave(cmd *cobra.Command, args []string) error {
	minLat, _ := cmd.Flags().GetFloat64("min-lat")
	maxLat, _ := cmd.Flags().GetFloat64("max-lat")
	minLong, _ := cmd.Flags().GetFloat64("min-long")
	maxLong, _ := cmd.Flags().GetFloat64("max-long")
	if minLat > maxLat || minLong > maxLong {
		return fmt.Errorf("bounding box edges are inverted")
	}

	b := types.Bookmark{
		Name:    args[0],
		MinLat:  minLat,
		MaxLat:  maxLat,
		MinLong: minLong,
		MaxLong: maxLong,
	}
	if err := refdata.SaveBookmark(viper.GetString("bookmarks_file"), b); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Saved bookmark %q\n", b.Name)
	return nil
}

func runCoordsList(cmd *cobra.Command, args []string) error {
	bookmarks, err := refdata.LoadBookmarks(viper.GetString("bookmarks_file"))
	if err != nil {
		return err
	}
	if len(bookmarks) == 0 {
		fmt.Fprintln(os.Stdout, "No bookmarks saved yet.")
		return nil
	}
	for _, b := range bookmarks {
		fmt.Fprintf(os.Stdout, "%-24s lat %.4f..%.4f  long %.4f..%.4f\n",
			b.Name, b.MinLat, b.MaxLat, b.MinLong, b.MaxLong)
	}
	return nil
}
