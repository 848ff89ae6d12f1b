package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
		{"songs", "song", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetric %q vs %q", tt.b, tt.a)
	}

	assert.InDelta(t, 1.0, LevenshteinNormalized("", ""), 1e-9)
	assert.InDelta(t, 0.8, LevenshteinNormalized("songs", "song"), 1e-9)
}

func TestNormalizeIdent(t *testing.T) {
	for _, in := range []string{"releaseDate", "release_date", "Release-Date", "ReleaseDate", "release date"} {
		assert.Equal(t, "releasedate", NormalizeIdent(in), in)
	}

	assert.Equal(t, "xmlparser", NormalizeIdent("XMLParser"))
	assert.Equal(t, "", NormalizeIdent(""))
}

func TestSuggest(t *testing.T) {
	known := []string{"id", "name", "songs", "releaseDate", "artwork"}

	assert.Equal(t, []string{"songs"}, Suggest("song", known, DefaultThreshold, 1))
	assert.Equal(t, []string{"releaseDate"}, Suggest("release_date", known, DefaultThreshold, 0))
	assert.Empty(t, Suggest("zzzzzz", known, DefaultThreshold, 3))

	ranked := RankCandidates("nme", known)
	assert.Equal(t, "name", ranked[0].Name)
	assert.Len(t, ranked, len(known))
}
