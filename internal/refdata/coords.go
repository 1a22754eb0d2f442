// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/greenmtn/forage-engine/pkg/types"
)

var bookmarkHeader = []string{"name", "min_lat", "max_lat", "min_long", "max_long"}

// LoadBookmarks reads the saved coordinate bookmarks. A missing file is
// an empty bookmark set, not an error.
func LoadBookmarks(path string) ([]types.Bookmark, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening bookmarks: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var out []types.Bookmark
	for _, row := range rows[1:] {
		if len(row) < 5 {
			return nil, fmt.Errorf("bookmark row has %d columns, want 5", len(row))
		}
		b := types.Bookmark{Name: row[0]}
		for i, dst := range []*float64{&b.MinLat, &b.MaxLat, &b.MinLong, &b.MaxLong} {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("bookmark %q: parsing %s: %w", b.Name, bookmarkHeader[i+1], err)
			}
			*dst = v
		}
		out = append(out, b)
	}
	return out, nil
}

// FindBookmark returns the bookmark with the given name.
func FindBookmark(bookmarks []types.Bookmark, name string) (types.Bookmark, bool) {
	for _, b := range bookmarks {
		if b.Name == name {
			return b, true
		}
	}
	return types.Bookmark{}, false
}

// SaveBookmark appends a bookmark, re-reading the file first so a save
// cannot clobber bookmarks added since the last load. Names are unique:
// a duplicate is rejected and nothing is written.
func SaveBookmark(path string, b types.Bookmark) error {
	existing, err := LoadBookmarks(path)
	if err != nil {
		return err
	}
	if _, ok := FindBookmark(existing, b.Name); ok {
		return fmt.Errorf("bookmark %q already exists", b.Name)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(bookmarkHeader); err != nil {
		return err
	}
	for _, row := range append(existing, b) {
		record := []string{
			row.Name,
			formatCoord(row.MinLat),
			formatCoord(row.MaxLat),
			formatCoord(row.MinLong),
			formatCoord(row.MaxLong),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
