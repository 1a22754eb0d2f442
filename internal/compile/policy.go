// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/greenmtn/forage-engine/pkg/types"
)

//go:embed policies.yaml
var policiesYAML []byte

// PolicyKind discriminates the per-species filter policy variants.
type PolicyKind int

const (
	// PolicyNone keeps every row.
	PolicyNone PolicyKind = iota

	// PolicyGenusSubstring keeps rows whose derived genus contains the
	// species key as a case-sensitive substring.
	PolicyGenusSubstring

	// PolicyCommonNameKeyword keeps rows whose common name matches a
	// fixed case-insensitive keyword alternation.
	PolicyCommonNameKeyword
)

// Policy is the filter applied to one species' rows before the
// finishing step. Exactly one variant applies per species; species
// absent from both policy tables get PolicyNone.
type Policy struct {
	Kind     PolicyKind
	Genus    string
	Keywords *regexp.Regexp
}

// Match reports whether an observation survives the policy.
func (p Policy) Match(o types.Observation) bool {
	switch p.Kind {
	case PolicyGenusSubstring:
		return strings.Contains(o.Genus, p.Genus)
	case PolicyCommonNameKeyword:
		return p.Keywords.MatchString(o.CommonName)
	default:
		return true
	}
}

type policyTables struct {
	GenusOnly  []string          `yaml:"genus_only"`
	CommonName map[string]string `yaml:"common_name"`
}

var (
	policyOnce    sync.Once
	policyErr     error
	genusOnlySet  map[string]bool
	keywordByName map[string]*regexp.Regexp
)

func loadPolicies() error {
	policyOnce.Do(func() {
		var tables policyTables
		if err := yaml.Unmarshal(policiesYAML, &tables); err != nil {
			policyErr = fmt.Errorf("parsing policy tables: %w", err)
			return
		}

		genusOnlySet = make(map[string]bool, len(tables.GenusOnly))
		for _, g := range tables.GenusOnly {
			genusOnlySet[g] = true
		}

		keywordByName = make(map[string]*regexp.Regexp, len(tables.CommonName))
		for key, pattern := range tables.CommonName {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				policyErr = fmt.Errorf("compiling keyword pattern for %s: %w", key, err)
				return
			}
			keywordByName[key] = re
		}
	})
	return policyErr
}

// ResolvePolicy selects the filter policy for a species key. The
// genus-only table wins when a key appears in both. Unknown keys
// resolve to PolicyNone.
func ResolvePolicy(speciesKey string) (Policy, error) {
	if err := loadPolicies(); err != nil {
		return Policy{}, err
	}
	if genusOnlySet[speciesKey] {
		return Policy{Kind: PolicyGenusSubstring, Genus: speciesKey}, nil
	}
	if re, ok := keywordByName[speciesKey]; ok {
		return Policy{Kind: PolicyCommonNameKeyword, Keywords: re}, nil
	}
	return Policy{Kind: PolicyNone}, nil
}
