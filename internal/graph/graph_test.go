package graph

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripsearch/internal/models"
)

type fakeSearcher struct {
	mu      sync.Mutex
	legs    map[[2]string][]models.Leg
	queried [][2]string
	panicOn [2]string
}

func (f *fakeSearcher) Search(_ context.Context, origin, dest, _ string, _ models.Mode) [][]models.Leg {
	pair := [2]string{origin, dest}
	f.mu.Lock()
	f.queried = append(f.queried, pair)
	f.mu.Unlock()
	if pair == f.panicOn {
		panic("provider exploded")
	}
	return [][]models.Leg{f.legs[pair]}
}

func priced(from, to string, price float64) models.Leg {
	return models.Leg{
		ID:            from + "-" + to,
		Type:          models.TypeFlight,
		Carrier:       "XX",
		ServiceNumber: from + to,
		From:          from,
		To:            to,
		Price:         price,
	}
}

func newFinder(s LegSearcher, hubs ...string) *Finder {
	return NewFinder(s, Config{Hubs: hubs, Logger: zerolog.Nop()})
}

func TestCheapestPath_FindsCheaperConnection(t *testing.T) {
	s := &fakeSearcher{legs: map[[2]string][]models.Leg{
		{"LHR", "AMS"}: {priced("LHR", "AMS", 10)},
		{"AMS", "CDG"}: {priced("AMS", "CDG", 20)},
		{"LHR", "BRU"}: {priced("LHR", "BRU", 5)},
		{"BRU", "CDG"}: {priced("BRU", "CDG", 40)},
		{"LHR", "CDG"}: {priced("LHR", "CDG", 1)},
	}}

	got := newFinder(s, "AMS", "BRU").CheapestPath(context.Background(), "LHR", "CDG", "2030-07-01", 45)

	require.NotNil(t, got)
	assert.Equal(t, []string{"LHR", "AMS", "CDG"}, got.Path)
	assert.Equal(t, 30.0, got.TotalPrice)
	require.Len(t, got.Legs, 2)
	assert.Equal(t, "LHR-AMS", got.Legs[0].ID)
	assert.Equal(t, "AMS-CDG", got.Legs[1].ID)
	assert.NotEmpty(t, got.Legs[0].BookingURL)

	assert.NotContains(t, s.queried, [2]string{"LHR", "CDG"}, "the direct pair is not part of the graph")
}

func TestCheapestPath_NotCheaperThanDirect(t *testing.T) {
	s := &fakeSearcher{legs: map[[2]string][]models.Leg{
		{"LHR", "AMS"}: {priced("LHR", "AMS", 20)},
		{"AMS", "CDG"}: {priced("AMS", "CDG", 25)},
	}}
	f := newFinder(s, "AMS")

	assert.Nil(t, f.CheapestPath(context.Background(), "LHR", "CDG", "2030-07-01", 45))
	assert.NotNil(t, f.CheapestPath(context.Background(), "LHR", "CDG", "2030-07-01", 45.01))
}

func TestCheapestPath_NoRoute(t *testing.T) {
	s := &fakeSearcher{legs: map[[2]string][]models.Leg{}}
	assert.Nil(t, newFinder(s, "AMS").CheapestPath(context.Background(), "LHR", "CDG", "2030-07-01", 100))
}

func TestCheapestPath_SameOriginAndDestination(t *testing.T) {
	s := &fakeSearcher{}
	assert.Nil(t, newFinder(s, "AMS").CheapestPath(context.Background(), "LHR", "LHR", "2030-07-01", 100))
	assert.Empty(t, s.queried)
}

func TestCheapestPath_PanickingPairIsSkipped(t *testing.T) {
	s := &fakeSearcher{
		legs: map[[2]string][]models.Leg{
			{"LHR", "AMS"}: {priced("LHR", "AMS", 10)},
			{"AMS", "CDG"}: {priced("AMS", "CDG", 20)},
		},
		panicOn: [2]string{"LHR", "BRU"},
	}

	got := newFinder(s, "AMS", "BRU").CheapestPath(context.Background(), "LHR", "CDG", "2030-07-01", 45)
	require.NotNil(t, got)
	assert.Equal(t, 30.0, got.TotalPrice)
}

func TestPairs_UsefulPairsFirstAndCapped(t *testing.T) {
	f := NewFinder(&fakeSearcher{}, Config{Hubs: []string{"AMS", "BRU", "CDG"}, MaxPairs: 5})

	got := f.pairs("LHR", "CDG")

	require.Len(t, got, 5)
	assert.Equal(t, [][2]string{
		{"LHR", "AMS"},
		{"LHR", "BRU"},
		{"AMS", "CDG"},
		{"BRU", "CDG"},
		{"AMS", "BRU"},
	}, got)
}

func TestPairs_SkipsPairsNoItineraryCanUse(t *testing.T) {
	f := NewFinder(&fakeSearcher{}, Config{Hubs: []string{"AMS", "BRU", "LHR", "CDG"}})

	got := f.pairs("LHR", "CDG")

	for _, p := range got {
		assert.NotEqual(t, "CDG", p[0], "pair %v leaves the destination", p)
		assert.NotEqual(t, "LHR", p[1], "pair %v enters the origin", p)
	}
	assert.Equal(t, [][2]string{
		{"LHR", "AMS"},
		{"LHR", "BRU"},
		{"AMS", "CDG"},
		{"BRU", "CDG"},
		{"AMS", "BRU"},
		{"BRU", "AMS"},
	}, got)
}

func TestPairs_DefaultCap(t *testing.T) {
	f := NewFinder(&fakeSearcher{}, Config{})
	got := f.pairs("RIX", "MXP")

	assert.Len(t, got, DefaultMaxPairs)
	assert.NotContains(t, got, [2]string{"RIX", "MXP"})
	for _, h := range DefaultHubs {
		if h == "MXP" {
			continue
		}
		assert.Contains(t, got, [2]string{"RIX", h})
		assert.Contains(t, got, [2]string{h, "MXP"})
	}
}

func TestDijkstra_TiesResolveFirstDiscovered(t *testing.T) {
	edges := []Edge{
		{From: "LHR", To: "AMS", Price: 10, Leg: priced("LHR", "AMS", 10)},
		{From: "LHR", To: "BRU", Price: 10, Leg: priced("LHR", "BRU", 10)},
		{From: "BRU", To: "CDG", Price: 20, Leg: priced("BRU", "CDG", 20)},
		{From: "AMS", To: "CDG", Price: 20, Leg: priced("AMS", "CDG", 20)},
	}
	got := Dijkstra("LHR", "CDG", edges)
	require.NotNil(t, got)
	assert.Equal(t, []string{"LHR", "AMS", "CDG"}, got.Path)
}

func TestDijkstra_AtMostTwoHops(t *testing.T) {
	edges := []Edge{
		{From: "LHR", To: "AMS", Price: 1},
		{From: "AMS", To: "BRU", Price: 1},
		{From: "BRU", To: "CDG", Price: 1},
		{From: "LHR", To: "FRA", Price: 50},
		{From: "FRA", To: "CDG", Price: 50},
	}
	got := Dijkstra("LHR", "CDG", edges)
	require.NotNil(t, got)
	assert.Equal(t, []string{"LHR", "FRA", "CDG"}, got.Path)
	assert.Equal(t, 100.0, got.TotalPrice)
}

func TestDijkstra_NoRevisits(t *testing.T) {
	edges := []Edge{
		{From: "LHR", To: "AMS", Price: 1},
		{From: "AMS", To: "LHR", Price: 1},
	}
	assert.Nil(t, Dijkstra("LHR", "CDG", edges))
}

func TestDijkstra_RoundsTotal(t *testing.T) {
	edges := []Edge{
		{From: "LHR", To: "AMS", Price: 10.1},
		{From: "AMS", To: "CDG", Price: 20.2},
	}
	got := Dijkstra("LHR", "CDG", edges)
	require.NotNil(t, got)
	assert.Equal(t, 30.3, got.TotalPrice)
}
