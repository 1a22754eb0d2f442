// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query is the filter engine over the compiled snapshot. It is
// pure: each call takes the snapshot, the curated species list, and an
// immutable filter set, and returns a result view. Nothing is cached
// between calls.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/greenmtn/forage-engine/pkg/types"
)

// Aggregate season tokens accepted in a filter alongside the concrete
// labels.
const (
	SeasonTokenYear    = types.SeasonYear
	SeasonTokenGrowing = "growing"
	SeasonTokenDormant = "dormant"
)

var growingSeasons = []string{
	types.SeasonEarlySpring, types.SeasonMidSpring, types.SeasonLateSpring,
	types.SeasonEarlySummer, types.SeasonMidSummer, types.SeasonLateSummer,
	types.SeasonEarlyFall,
}

var dormantSeasons = []string{
	types.SeasonMidFall, types.SeasonLateFall,
	types.SeasonEarlyWinter, types.SeasonMidWinter, types.SeasonLateWinter,
}

var quarterNames = map[string]bool{
	"spring": true, "summer": true, "fall": true, "winter": true,
}

// ExpandSeasons expands selected season tokens into the concrete set of
// labels they match, unioned over all tokens and deduplicated. known is
// the set of labels present in the species metadata; "year" and bare
// quarter names resolve against it. A record passes the season filter
// only when its label exactly equals a member of the expanded set —
// membership is equality, never substring containment.
//
// An underscore-suffixed token expands to itself plus its suffix
// (early_fall → early_fall, fall), never its prefix. That mirrors the
// metadata convention where a plain quarter label marks a species
// available through the whole quarter.
func ExpandSeasons(selected, known []string) []string {
	expanded := map[string]bool{}
	add := func(labels ...string) {
		for _, l := range labels {
			expanded[l] = true
		}
	}

	for _, token := range selected {
		switch {
		case token == SeasonTokenYear:
			add(known...)
		case token == SeasonTokenGrowing:
			add(growingSeasons...)
		case token == SeasonTokenDormant:
			add(dormantSeasons...)
		case quarterNames[token]:
			for _, label := range known {
				if strings.Contains(label, token) {
					add(label)
				}
			}
		case strings.Contains(token, "_"):
			_, suffix, _ := strings.Cut(token, "_")
			add(token, suffix)
		default:
			add(token, SeasonTokenYear)
		}
	}

	out := make([]string, 0, len(expanded))
	for label := range expanded {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// CurrentSeason maps a date to its fine-grained season label using
// julian-day boundaries tuned for a northern New England climate. The
// fall labels skip mid_fall: early fall runs to mid October and late
// fall covers the rest.
func CurrentSeason(t time.Time) string {
	switch day := t.YearDay(); {
	case day >= 60 && day <= 89:
		return types.SeasonEarlySpring
	case day >= 90 && day <= 120:
		return types.SeasonMidSpring
	case day >= 121 && day <= 151:
		return types.SeasonLateSpring
	case day >= 152 && day <= 182:
		return types.SeasonEarlySummer
	case day >= 183 && day <= 213:
		return types.SeasonMidSummer
	case day >= 214 && day <= 243:
		return types.SeasonLateSummer
	case day >= 244 && day <= 289:
		return types.SeasonEarlyFall
	case day >= 290 && day <= 334:
		return types.SeasonLateFall
	case day >= 335:
		return types.SeasonEarlyWinter
	case day >= 1 && day <= 31:
		return types.SeasonMidWinter
	default:
		return types.SeasonLateWinter
	}
}
