package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripsearch/internal/models"
)

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(int) int     { return r.n }

func TestDurationISO(t *testing.T) {
	assert.Equal(t, "PT8H30M", durationISO(8.5))
	assert.Equal(t, "PT14H", durationISO(14))
	assert.Equal(t, "PT1H48M", durationISO(1.8))
	assert.Equal(t, "PT3H42M", durationISO(3.7))
}

func TestFlixBus_Search(t *testing.T) {
	p, err := NewFlixBusProvider(fixedRand{f: 0.5, n: 234})
	require.NoError(t, err)

	legs, err := p.Search(context.Background(), "LHR", "CDG", "2030-07-01")
	require.NoError(t, err)
	require.Len(t, legs, 1)

	leg := legs[0]
	assert.Equal(t, "flixbus-LHR-CDG-2030-07-01", leg.ID)
	assert.Equal(t, models.TypeBus, leg.Type)
	assert.Equal(t, "flixbus", leg.Provider)
	assert.Equal(t, "FlixBus", leg.Carrier)
	assert.Equal(t, "FB1234", leg.ServiceNumber)
	assert.Equal(t, "2030-07-01T09:00:00+01:00", leg.DepartureTime)
	assert.Equal(t, "2030-07-01T18:30:00+02:00", leg.ArrivalTime)
	assert.Equal(t, "PT8H30M", leg.DurationISO)
	assert.Equal(t, 15.99, leg.Price)
	assert.Equal(t, 0.85, leg.Reliability)
	assert.Equal(t, "EUR", leg.Currency)
}

func TestFlixBus_ReverseDirection(t *testing.T) {
	p, err := NewFlixBusProvider(fixedRand{})
	require.NoError(t, err)

	legs, err := p.Search(context.Background(), "HEL", "TLL", "2030-07-01")
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "HEL", legs[0].From)
	assert.Equal(t, "TLL", legs[0].To)
	assert.Equal(t, "Tallink", legs[0].Carrier)
	assert.Equal(t, "2030-07-01T06:00:00+03:00", legs[0].DepartureTime)
}

func TestFlixBus_UnknownPair(t *testing.T) {
	p, err := NewFlixBusProvider(nil)
	require.NoError(t, err)

	legs, err := p.Search(context.Background(), "JFK", "LAX", "2030-07-01")
	require.NoError(t, err)
	assert.Empty(t, legs)
}

func TestTrainline_TwoDepartures(t *testing.T) {
	p, err := NewTrainlineProvider(fixedRand{f: 0.25})
	require.NoError(t, err)

	legs, err := p.Search(context.Background(), "MAD", "BCN", "2030-07-01")
	require.NoError(t, err)
	require.Len(t, legs, 2)

	assert.Equal(t, "train-MAD-BCN-2030-07-01-0", legs[0].ID)
	assert.Equal(t, "AVE1000", legs[0].ServiceNumber)
	assert.Equal(t, "2030-07-01T09:00:00+02:00", legs[0].DepartureTime)
	assert.Equal(t, "2030-07-01T11:30:00+02:00", legs[0].ArrivalTime)
	assert.Equal(t, 45.0, legs[0].Price)

	assert.Equal(t, "train-MAD-BCN-2030-07-01-1", legs[1].ID)
	assert.Equal(t, "AVE1111", legs[1].ServiceNumber)
	assert.Equal(t, "2030-07-01T13:00:00+02:00", legs[1].DepartureTime)
	assert.Equal(t, 51.75, legs[1].Price)

	for _, leg := range legs {
		assert.Equal(t, models.TypeTrain, leg.Type)
		assert.Equal(t, "trainline", leg.Provider)
		assert.Equal(t, 0.92, leg.Reliability)
		assert.Equal(t, "PT2H30M", leg.DurationISO)
	}
}

func TestTrainline_NonASCIICarrierPrefix(t *testing.T) {
	p, err := NewTrainlineProvider(fixedRand{})
	require.NoError(t, err)

	legs, err := p.Search(context.Background(), "VIE", "PRG", "2030-07-01")
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "ÖBB1000", legs[0].ServiceNumber)
	assert.Equal(t, 36.8, legs[1].Price)
}

func TestRouteProviders_CanceledContext(t *testing.T) {
	bus, err := NewFlixBusProvider(nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = bus.Search(ctx, "LHR", "CDG", "2030-07-01")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemoLegs(t *testing.T) {
	all := DemoLegs("LHR", "BCN", "2030-07-01", models.ModeAll)
	require.Len(t, all, 4)
	assert.Equal(t, "d1", all[0].ID)
	assert.Equal(t, "Demo", all[0].Provider)
	assert.Equal(t, "LHR", all[0].From)
	assert.Equal(t, "BCN", all[0].To)
	assert.Equal(t, "2030-07-01T08:00:00+01:00", all[0].DepartureTime)
	assert.Equal(t, "2030-07-01T11:15:00+02:00", all[0].ArrivalTime)
	assert.Equal(t, 24.99, all[3].Price)
	assert.Equal(t, 1, all[3].Stops)

	flights := DemoLegs("LHR", "BCN", "2030-07-01", models.ModeFlight)
	require.Len(t, flights, 2)
	for _, leg := range flights {
		assert.Equal(t, models.TypeFlight, leg.Type)
	}

	bus := DemoLegs("LHR", "BCN", "2030-07-01", models.ModeBus)
	require.Len(t, bus, 1)
	assert.Equal(t, "FB2201", bus[0].ServiceNumber)
}
