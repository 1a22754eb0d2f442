// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finds keeps the personal foraging log, a small CSV file of
// dated finds with coordinates and notes. The file is the source of
// truth; every mutation rewrites it in full.
package finds

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/greenmtn/forage-engine/pkg/types"
)

var header = []string{
	"species", "common_name", "date", "lat", "lon",
	"notes", "quantity", "rating", "added_on",
}

// Store reads and writes the finds log at a fixed path.
type Store struct {
	Path string
}

// Load returns all finds in file order. A missing file is an empty log,
// not an error.
func (s Store) Load() ([]types.Find, error) {
	f, err := os.Open(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening finds log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading finds log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	finds := make([]types.Find, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(header) {
			continue
		}
		lat, _ := strconv.ParseFloat(rec[3], 64)
		lon, _ := strconv.ParseFloat(rec[4], 64)
		rating, _ := strconv.Atoi(rec[7])
		finds = append(finds, types.Find{
			Species:    rec[0],
			CommonName: rec[1],
			Date:       rec[2],
			Lat:        lat,
			Lon:        lon,
			Notes:      rec[5],
			Quantity:   rec[6],
			Rating:     rating,
			AddedOn:    rec[8],
		})
	}
	return finds, nil
}

// Append stamps the find with the current time and adds it to the log.
func (s Store) Append(find types.Find) error {
	if find.AddedOn == "" {
		find.AddedOn = time.Now().Format(time.DateTime)
	}
	finds, err := s.Load()
	if err != nil {
		return err
	}
	return s.write(append(finds, find))
}

// Delete removes the find at the given zero-based position.
func (s Store) Delete(index int) error {
	finds, err := s.Load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(finds) {
		return fmt.Errorf("no find at position %d", index)
	}
	return s.write(append(finds[:index], finds[index+1:]...))
}

// Import appends every find from another CSV file to the log.
func (s Store) Import(path string) (int, error) {
	other := Store{Path: path}
	incoming, err := other.Load()
	if err != nil {
		return 0, err
	}
	finds, err := s.Load()
	if err != nil {
		return 0, err
	}
	if err := s.write(append(finds, incoming...)); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

// Export copies the log to another path.
func (s Store) Export(path string) error {
	finds, err := s.Load()
	if err != nil {
		return err
	}
	return Store{Path: path}.write(finds)
}

func (s Store) write(finds []types.Find) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating finds directory: %w", err)
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("writing finds log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, find := range finds {
		rec := []string{
			find.Species,
			find.CommonName,
			find.Date,
			strconv.FormatFloat(find.Lat, 'f', -1, 64),
			strconv.FormatFloat(find.Lon, 'f', -1, 64),
			find.Notes,
			find.Quantity,
			strconv.Itoa(find.Rating),
			find.AddedOn,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Sort orders finds in place by the named key: date_desc, date_asc,
// species, or rating. Unknown keys leave the order alone. Date strings
// are ISO formatted, so lexical comparison is chronological.
func Sort(finds []types.Find, key string) {
	switch key {
	case "date_desc":
		sort.SliceStable(finds, func(i, j int) bool { return finds[i].Date > finds[j].Date })
	case "date_asc":
		sort.SliceStable(finds, func(i, j int) bool { return finds[i].Date < finds[j].Date })
	case "species":
		sort.SliceStable(finds, func(i, j int) bool { return finds[i].Species < finds[j].Species })
	case "rating":
		sort.SliceStable(finds, func(i, j int) bool { return finds[i].Rating > finds[j].Rating })
	}
}
