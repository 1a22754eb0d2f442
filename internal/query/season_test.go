// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var knownSeasons = []string{
	"early_fall", "early_spring", "early_summer", "fall", "late_summer",
	"mid_spring", "spring", "summer", "year",
}

func TestExpandSeasons(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     []string
	}{
		{
			name:     "year selects every known label",
			selected: []string{"year"},
			want:     knownSeasons,
		},
		{
			name:     "growing is a fixed label set",
			selected: []string{"growing"},
			want: []string{
				"early_fall", "early_spring", "early_summer",
				"late_spring", "late_summer", "mid_spring", "mid_summer",
			},
		},
		{
			name:     "dormant is a fixed label set",
			selected: []string{"dormant"},
			want: []string{
				"early_winter", "late_fall", "late_winter",
				"mid_fall", "mid_winter",
			},
		},
		{
			name:     "quarter name matches known labels containing it",
			selected: []string{"spring"},
			want:     []string{"early_spring", "mid_spring", "spring"},
		},
		{
			name:     "underscore token adds its quarter suffix",
			selected: []string{"late_summer"},
			want:     []string{"late_summer", "summer"},
		},
		{
			name:     "plain token adds the year label",
			selected: []string{"ephemeral"},
			want:     []string{"ephemeral", "year"},
		},
		{
			name:     "union over several tokens is deduplicated",
			selected: []string{"late_summer", "summer", "early_summer"},
			want:     []string{"early_summer", "late_summer", "summer"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandSeasons(tt.selected, knownSeasons))
		})
	}
}

func TestExpandSeasonsMembershipIsExact(t *testing.T) {
	// mid_fall is not in the known set, so a fall quarter selection must
	// not invent it, and the suffix added for late_fall stays the bare
	// quarter label.
	got := ExpandSeasons([]string{"late_fall"}, knownSeasons)
	assert.Equal(t, []string{"fall", "late_fall"}, got)
	assert.NotContains(t, got, "mid_fall")
}

func TestCurrentSeason(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "mid_winter"},
		{time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), "late_winter"},
		{time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), "early_spring"},
		{time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), "late_spring"},
		{time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), "mid_summer"},
		{time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), "early_fall"},
		{time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC), "late_fall"},
		{time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC), "early_winter"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CurrentSeason(tt.date), tt.date.Format("Jan 2"))
	}
}
