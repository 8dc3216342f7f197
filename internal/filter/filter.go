package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/tripsearch/internal/models"
)

const (
	SortBest      = "best"
	SortFastest   = "fastest"
	SortCheapest  = "cheapest"
	SortDeparture = "departure"
)

type Options struct {
	Sort     string
	MaxStops *int
	MaxPrice *float64
	Types    []models.TransportType
}

func FromSearchFilters(f *models.SearchFilters) Options {
	if f == nil {
		return Options{}
	}
	return Options{
		Sort:     f.SortBy,
		MaxStops: f.MaxStops,
		MaxPrice: f.MaxPrice,
		Types:    f.Types,
	}
}

// Apply filters and reorders a copy of legs. The input is expected in rank
// order, which the best sort keeps.
func Apply(legs []models.Leg, opts Options) []models.Leg {
	filtered := applyFilters(legs, opts)
	applySort(filtered, opts.Sort)
	return filtered
}

func applyFilters(legs []models.Leg, opts Options) []models.Leg {
	result := make([]models.Leg, 0, len(legs))
	for _, l := range legs {
		if matches(l, opts) {
			result = append(result, l)
		}
	}
	return result
}

func matches(l models.Leg, opts Options) bool {
	if opts.MaxStops != nil && l.Stops > *opts.MaxStops {
		return false
	}
	if opts.MaxPrice != nil && l.Price > *opts.MaxPrice {
		return false
	}

	if len(opts.Types) > 0 {
		found := false
		for _, t := range opts.Types {
			if strings.EqualFold(string(l.Type), string(t)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func applySort(legs []models.Leg, sortBy string) {
	if len(legs) < 2 {
		return
	}

	switch strings.ToLower(sortBy) {
	case SortFastest:
		sort.SliceStable(legs, func(i, j int) bool {
			return legs[i].DurationMinutes < legs[j].DurationMinutes
		})

	case SortCheapest:
		sort.SliceStable(legs, func(i, j int) bool {
			return legs[i].Price < legs[j].Price
		})

	case SortDeparture:
		sort.SliceStable(legs, func(i, j int) bool {
			return departsBefore(legs[i].DepartureTime, legs[j].DepartureTime)
		})
	}
}

func departsBefore(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ta.Before(tb)
}
