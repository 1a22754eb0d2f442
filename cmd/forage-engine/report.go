package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenmtn/forage-engine/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a filtered query as a standalone HTML report",
	Long: `Report runs the same filters as query and writes the result as a
self-contained HTML page with summary metrics, per-species and per-genus
charts, and the detailed species table.`,
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().String("title", "", "report title")
	reportCmd.Flags().String("image", "", "PNG or JPEG to embed under the title")
	reportCmd.Flags().String("output-dir", "", "directory for generated reports")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	res, err := evaluateFilters(cmd)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	image, _ := cmd.Flags().GetString("image")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("report_dir")
	}

	path, err := report.SaveHTML(outputDir, res, report.Params{Title: title, ImagePath: image})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Report written to %s\n", path)
	return nil
}
