package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CoverageScope is either Local(country) or Regional(set of countries).
// The zero value is invalid; build scopes with LocalScope or RegionalScope.
type CoverageScope struct {
	kind      ScopeKind
	countries []string
}

// LocalScope returns a single-country scope.
func LocalScope(country string) CoverageScope {
	return CoverageScope{kind: ScopeLocal, countries: []string{NormalizeCountry(country)}}
}

// RegionalScope returns a multi-country scope. Codes are normalized,
// de-duplicated and sorted.
func RegionalScope(countries ...string) CoverageScope {
	seen := make(map[string]bool, len(countries))
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		cc := NormalizeCountry(c)
		if cc == "" || seen[cc] {
			continue
		}
		seen[cc] = true
		out = append(out, cc)
	}
	sort.Strings(out)
	return CoverageScope{kind: ScopeRegional, countries: out}
}

// NormalizeCountry upper-cases and trims an ISO country code.
func NormalizeCountry(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func (s CoverageScope) Kind() ScopeKind { return s.kind }

func (s CoverageScope) IsLocal() bool { return s.kind == ScopeLocal }

// Country returns the country of a local scope, or "" for regional scopes.
func (s CoverageScope) Country() string {
	if s.kind != ScopeLocal || len(s.countries) == 0 {
		return ""
	}
	return s.countries[0]
}

// Countries returns a copy of the covered country codes.
func (s CoverageScope) Countries() []string {
	out := make([]string, len(s.countries))
	copy(out, s.countries)
	return out
}

// Covers reports whether the scope includes the given country. An empty
// country is the wildcard used by single-region itineraries and is covered
// by every valid scope.
func (s CoverageScope) Covers(country string) bool {
	if len(s.countries) == 0 {
		return false
	}
	if country == "" {
		return true
	}
	for _, c := range s.countries {
		if c == country {
			return true
		}
	}
	return false
}

func (s CoverageScope) Validate() error {
	switch s.kind {
	case ScopeLocal:
		if len(s.countries) != 1 || s.countries[0] == "" {
			return fmt.Errorf("local coverage requires exactly one country")
		}
	case ScopeRegional:
		if len(s.countries) == 0 {
			return fmt.Errorf("regional coverage requires at least one country")
		}
	default:
		return fmt.Errorf("coverage scope is empty")
	}
	return nil
}

func (s CoverageScope) String() string {
	if s.kind == ScopeLocal {
		return "Local: " + s.Country()
	}
	return fmt.Sprintf("Regional (%d countries)", len(s.countries))
}
