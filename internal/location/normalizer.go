package location

import (
	"sort"
	"strings"
)

const maxFuzzyDistance = 3

// Normalizer resolves free-text places to station codes.
type Normalizer struct {
	cities     map[string][]string
	names      []string
	codeToCity map[string]string
}

func NewNormalizer(cities map[string][]string) *Normalizer {
	n := &Normalizer{
		cities:     cities,
		names:      make([]string, 0, len(cities)),
		codeToCity: make(map[string]string),
	}
	for city, codes := range cities {
		n.names = append(n.names, city)
		for _, code := range codes {
			n.codeToCity[code] = city
		}
	}
	sort.Strings(n.names)
	return n
}

var Default = NewNormalizer(cityCodes)

func Normalize(input string) string {
	return Default.Normalize(input)
}

func CityName(code string) string {
	return Default.CityName(code)
}

// Normalize never fails. Three letters are taken as a code, then exact city,
// city-name prefix and closest city within edit distance 3 are tried in turn.
// Anything else comes back upper-cased.
func (n *Normalizer) Normalize(input string) string {
	clean := strings.ToLower(strings.TrimSpace(input))
	if clean == "" {
		return ""
	}

	if isAlpha3(clean) {
		return strings.ToUpper(clean)
	}

	if codes, ok := n.cities[clean]; ok {
		return codes[0]
	}

	for _, name := range n.names {
		if strings.HasPrefix(name, clean) {
			return n.cities[name][0]
		}
	}

	best, bestDist := "", maxFuzzyDistance+1
	for _, name := range n.names {
		if d := levenshtein(clean, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	if best != "" {
		return n.cities[best][0]
	}

	return strings.ToUpper(strings.TrimSpace(input))
}

// CityName returns the display name for a code, or the code itself when unknown.
func (n *Normalizer) CityName(code string) string {
	if city, ok := n.codeToCity[strings.ToUpper(code)]; ok {
		return titleCase(city)
	}
	return code
}

func isAlpha3(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
