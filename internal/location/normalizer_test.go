package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"code passes through", "lhr", "LHR"},
		{"code with spaces", "  cdg ", "CDG"},
		{"unknown code", "xyz", "XYZ"},
		{"exact city", "London", "LHR"},
		{"multi word city", "new york", "JFK"},
		{"prefix", "barc", "BCN"},
		{"prefix of two words", "hong", "HKG"},
		{"typo", "londn", "LHR"},
		{"typo with swap", "amsterdma", "AMS"},
		{"too far", "zzzzzzzz", "ZZZZZZZZ"},
		{"non latin", "Барселона", "БАРСЕЛОНА"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_PrefixTieIsAlphabetical(t *testing.T) {
	// baku, bali, bangkok and barcelona all start with "ba"
	assert.Equal(t, "GYD", Normalize("ba"))
}

func TestNormalize_FuzzyTieIsAlphabetical(t *testing.T) {
	// one edit from both baku and bali
	assert.Equal(t, "GYD", Normalize("balu"))
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"london", "barc", "londn", "VIE", "nowhere-land"} {
		once := Normalize(in)
		if len(once) == 3 {
			assert.Equal(t, once, Normalize(once), in)
		}
	}
}

func TestCityName(t *testing.T) {
	assert.Equal(t, "London", CityName("LHR"))
	assert.Equal(t, "London", CityName("lgw"))
	assert.Equal(t, "St Petersburg", CityName("LED"))
	assert.Equal(t, "XYZ", CityName("XYZ"))
}

func TestNewNormalizer_CustomTable(t *testing.T) {
	n := NewNormalizer(map[string][]string{"springfield": {"SPI"}})
	assert.Equal(t, "SPI", n.Normalize("spring"))
	assert.Equal(t, "LONDON", n.Normalize("london"))
	assert.Equal(t, "Springfield", n.CityName("SPI"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("paris", "paris"))
	assert.Equal(t, 1, levenshtein("londn", "london"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 5, levenshtein("", "abcde"))
}
