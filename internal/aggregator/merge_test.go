package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripsearch/internal/models"
)

func TestAggregate_DedupFirstWins(t *testing.T) {
	a := models.Leg{ID: "a", Provider: "P1", Carrier: "FR", ServiceNumber: "FR1", DepartureTime: "2030-07-01T08:00:00+01:00", Price: 40}
	dup := a
	dup.ID = "dup"
	dup.Provider = "P2"
	dup.Price = 30
	other := a
	other.ID = "other"
	other.DepartureTime = "2030-07-01T09:00:00+01:00"

	got := Aggregate([][]models.Leg{{a}, {dup, other}}, "2030-07-01")

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 40.0, got[0].Price)
	assert.Equal(t, "other", got[1].ID)
}

func TestAggregate_Defaults(t *testing.T) {
	got := Aggregate([][]models.Leg{{{ID: "x", From: "LHR", To: "BCN", DurationISO: "PT2H15M", Price: 45.004}}}, "2030-07-01")

	require.Len(t, got, 1)
	leg := got[0]
	assert.Equal(t, models.TypeFlight, leg.Type)
	assert.Equal(t, "Unknown", leg.Provider)
	assert.Equal(t, "EUR", leg.Currency)
	assert.Equal(t, 0.8, leg.Reliability)
	assert.Equal(t, 45.0, leg.Price)
	assert.Equal(t, 135, leg.DurationMinutes)
	assert.Equal(t, 0.0, leg.Score)
	assert.Equal(t, "https://www.skyscanner.net/transport/flights/LHR/BCN/300701/?adults=1", leg.BookingURL)
}

func TestAggregate_GroundBookingURL(t *testing.T) {
	got := Aggregate([][]models.Leg{{{ID: "t", Type: models.TypeTrain, From: "LHR", To: "CDG", Reliability: 0.92}}}, "2030-07-01")

	assert.Equal(t, "https://www.rome2rio.com/s/LHR/CDG", got[0].BookingURL)
	assert.Equal(t, 0.92, got[0].Reliability)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, "2030-07-01"))
	assert.Empty(t, Aggregate([][]models.Leg{nil, {}}, "2030-07-01"))
}

func TestParseDurationMinutes(t *testing.T) {
	tests := map[string]int{
		"PT2H30M":  150,
		"PT14H":    840,
		"PT45M":    45,
		"PT12H30M": 750,
		"PT":       0,
		"":         0,
		"2h30":     0,
		"P1DT2H":   0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseDurationMinutes(in), in)
	}
}

func TestBookingURL(t *testing.T) {
	assert.Equal(t, "https://www.skyscanner.net/transport/flights/LHR/CDG/260515/?adults=1", BookingURL("LHR", "CDG", "2026-05-15", models.TypeFlight))
	assert.Equal(t, "https://www.rome2rio.com/s/BER/PRG", BookingURL("BER", "PRG", "2026-05-15", models.TypeBus))
}
