// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a query result into a standalone HTML page or
// a flat CSV of observation rows. The HTML page embeds its styling and
// draws the per-species and per-genus breakdowns as CSS bar charts, so
// the file works offline with no script or asset dependencies.
package report

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/greenmtn/forage-engine/internal/query"
)

// Params carries everything the HTML template needs beyond the result
// itself.
type Params struct {
	Title       string
	GeneratedAt time.Time

	// ImagePath optionally names a PNG or JPEG to embed inline under
	// the title, e.g. a map screenshot saved from the query session.
	ImagePath string
}

type bar struct {
	Name    string
	Count   int
	Percent float64
}

type pageData struct {
	Title           string
	GeneratedAt     string
	ExpandedSeasons string

	TotalObservations string
	UniqueSpecies     string
	UniqueGenera      string

	ImageData template.URL

	SpeciesBars []bar
	GenusBars   []bar
	Table       []query.TableRow
}

// maxBars caps the chart length so a broad query stays readable.
const maxBars = 20

// WriteHTML renders the result as a self-contained HTML report.
func WriteHTML(w io.Writer, res query.Result, p Params) error {
	if p.Title == "" {
		p.Title = "Foraging Report"
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}

	imageData, err := encodeImage(p.ImagePath)
	if err != nil {
		return err
	}

	data := pageData{
		Title:             p.Title,
		GeneratedAt:       p.GeneratedAt.Format("January 2, 2006 15:04"),
		ExpandedSeasons:   strings.Join(res.ExpandedSeasons, ", "),
		TotalObservations: humanize.Comma(int64(res.TotalObservations)),
		UniqueSpecies:     humanize.Comma(int64(res.UniqueSpecies)),
		UniqueGenera:      humanize.Comma(int64(res.UniqueGenera)),
		ImageData:         imageData,
		SpeciesBars:       toBars(query.SpeciesCounts(res.Rows)),
		GenusBars:         toBars(query.GenusCounts(res.Rows)),
		Table:             query.SpeciesTable(res.Rows),
	}
	return pageTemplate.Execute(w, data)
}

// SaveHTML writes the report to dir with a timestamped filename and
// returns the path.
func SaveHTML(dir string, res query.Result, p Params) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}
	path := filepath.Join(dir, "foraging_report_"+p.GeneratedAt.Format("20060102_150405")+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	defer f.Close()
	if err := WriteHTML(f, res, p); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV exports the result rows as a flat observation table.
func WriteCSV(w io.Writer, res query.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"uuid", "species", "scientific_name", "common_name", "genus",
		"observed_at", "latitude", "longitude", "season", "sayer_rating",
		"plant_part", "location", "quality_grade",
	}); err != nil {
		return err
	}
	for _, r := range res.Rows {
		observed := ""
		if r.ObservedAt != nil {
			observed = r.ObservedAt.UTC().Format(time.RFC3339)
		}
		rec := []string{
			r.UUID,
			r.SpeciesKey,
			r.ScientificName,
			r.HoverLabel,
			r.Meta.Genus,
			observed,
			formatCoord(r.Latitude),
			formatCoord(r.Longitude),
			r.Meta.Season,
			strconv.Itoa(r.Meta.SayerRating),
			r.Meta.PlantPart,
			r.Location,
			r.QualityGrade,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// encodeImage reads an image file and returns it as a base64 data URL
// for inline embedding. An empty path means no image.
func encodeImage(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading report image: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/png"
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return template.URL("data:" + mimeType + ";base64," + encoded), nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func toBars(counts []query.Count) []bar {
	if len(counts) > maxBars {
		counts = counts[:maxBars]
	}
	var max int
	for _, c := range counts {
		if c.Count > max {
			max = c.Count
		}
	}
	bars := make([]bar, 0, len(counts))
	for _, c := range counts {
		pct := 0.0
		if max > 0 {
			pct = float64(c.Count) / float64(max) * 100
		}
		bars = append(bars, bar{Name: c.Name, Count: c.Count, Percent: pct})
	}
	return bars
}
