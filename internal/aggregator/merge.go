package aggregator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dharmasatrya/tripsearch/internal/models"
	"github.com/dharmasatrya/tripsearch/pkg/currency"
)

const (
	defaultProvider    = "Unknown"
	defaultCurrency    = "EUR"
	defaultReliability = 0.8
)

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// Aggregate flattens per-provider results in order and keeps the first leg for
// each (carrier, service number, departure time). Missing fields get defaults,
// prices are rounded to cents and every leg gets a booking link for date.
func Aggregate(perProvider [][]models.Leg, date string) []models.Leg {
	seen := make(map[string]struct{})
	out := make([]models.Leg, 0)

	for _, legs := range perProvider {
		for _, leg := range legs {
			key := leg.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, normalizeLeg(leg, date))
		}
	}
	return out
}

func normalizeLeg(leg models.Leg, date string) models.Leg {
	if leg.Type == "" {
		leg.Type = models.TypeFlight
	}
	if leg.Provider == "" {
		leg.Provider = defaultProvider
	}
	if leg.Currency == "" {
		leg.Currency = defaultCurrency
	}
	if leg.Reliability == 0 {
		leg.Reliability = defaultReliability
	}
	if leg.Stops < 0 {
		leg.Stops = 0
	}
	leg.Price = currency.Round2(leg.Price)
	leg.DurationMinutes = ParseDurationMinutes(leg.DurationISO)
	leg.BookingURL = BookingURL(leg.From, leg.To, date, leg.Type)
	leg.Score = 0
	return leg
}

// ParseDurationMinutes reads PT#H#M. Anything it cannot read counts as zero.
func ParseDurationMinutes(iso string) int {
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

// BookingURL links flights to a flight search and ground legs to a route planner.
func BookingURL(from, to, date string, t models.TransportType) string {
	if t == models.TypeFlight {
		return "https://www.skyscanner.net/transport/flights/" + from + "/" + to + "/" + compactDate(date) + "/?adults=1"
	}
	return "https://www.rome2rio.com/s/" + from + "/" + to
}

// compactDate turns 2026-05-15 into 260515.
func compactDate(date string) string {
	if len(date) >= 2 {
		date = date[2:]
	}
	return strings.ReplaceAll(date, "-", "")
}
