package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionalScope_NormalizesAndDedupes(t *testing.T) {
	s := RegionalScope("fr", " DE", "de", "")
	assert.Equal(t, []string{"DE", "FR"}, s.Countries())
	assert.Equal(t, ScopeRegional, s.Kind())
	assert.Equal(t, "", s.Country())
}

func TestCoverageScope_Covers(t *testing.T) {
	local := LocalScope("at")
	assert.True(t, local.Covers("AT"))
	assert.False(t, local.Covers("DE"))
	assert.True(t, local.Covers(""), "wildcard segment is covered by any scope")

	var zero CoverageScope
	assert.False(t, zero.Covers(""))
}

func TestCoverageScope_CountriesIsCopy(t *testing.T) {
	s := RegionalScope("DE", "FR")
	c := s.Countries()
	c[0] = "XX"
	assert.Equal(t, []string{"DE", "FR"}, s.Countries())
}
