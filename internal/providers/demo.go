package providers

import (
	"github.com/dharmasatrya/tripsearch/internal/models"
	"github.com/dharmasatrya/tripsearch/internal/timezone"
)

type demoLeg struct {
	id, carrier, service string
	typ                  models.TransportType
	depMin, arrMin       int
	duration             string
	stops                int
	price, reliability   float64
}

var demoTimetable = []demoLeg{
	{"d1", "Ryanair", "FR1234", models.TypeFlight, 8 * 60, 11*60 + 15, "PT2H15M", 0, 45.00, 0.9},
	{"d2", "easyJet", "U21812", models.TypeFlight, 14*60 + 30, 17*60 + 50, "PT2H20M", 0, 52.00, 0.9},
	{"d3", "Eurostar", "ES9031", models.TypeTrain, 8*60 + 30, 13 * 60, "PT4H30M", 0, 79.00, 0.95},
	{"d4", "FlixBus", "FB2201", models.TypeBus, 7 * 60, 19*60 + 30, "PT12H30M", 1, 24.99, 0.85},
}

// DemoLegs is the fixed fallback timetable used when no provider has anything
// for a pair. Only legs relevant to mode are returned.
func DemoLegs(origin, dest, date string, mode models.Mode) []models.Leg {
	legs := make([]models.Leg, 0, len(demoTimetable))
	for _, d := range demoTimetable {
		if !mode.Includes(d.typ) {
			continue
		}
		legs = append(legs, models.Leg{
			ID:            d.id,
			Type:          d.typ,
			Provider:      "Demo",
			Carrier:       d.carrier,
			ServiceNumber: d.service,
			From:          origin,
			To:            dest,
			DepartureTime: demoTime(date, d.depMin, origin),
			ArrivalTime:   demoTime(date, d.arrMin, dest),
			DurationISO:   d.duration,
			Stops:         d.stops,
			Price:         d.price,
			Currency:      "EUR",
			Reliability:   d.reliability,
		})
	}
	return legs
}

func demoTime(date string, minutes int, code string) string {
	t, err := timezone.LocalTime(date, minutes, code)
	if err != nil {
		return date
	}
	return timezone.Format(t)
}
