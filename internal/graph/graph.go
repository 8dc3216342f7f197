package graph

import (
	"container/heap"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/tripsearch/internal/aggregator"
	"github.com/dharmasatrya/tripsearch/internal/models"
	"github.com/dharmasatrya/tripsearch/pkg/currency"
)

// DefaultHubs are the connection points tried between origin and destination.
var DefaultHubs = []string{
	"LHR", "CDG", "AMS", "FRA", "MAD", "BCN", "FCO", "MXP",
	"BER", "VIE", "ZRH", "BRU", "PRG", "WAW", "ATH", "IST",
	"MUC", "CPH", "ARN", "HEL",
}

const (
	DefaultMaxPairs    = 60
	DefaultConcurrency = 16
	maxHops            = 2
)

// LegSearcher fetches direct legs for one pair from every provider.
type LegSearcher interface {
	Search(ctx context.Context, origin, dest, date string, mode models.Mode) [][]models.Leg
}

type Config struct {
	Hubs        []string
	MaxPairs    int
	Concurrency int
	Logger      zerolog.Logger
	Tracer      trace.Tracer
}

// Edge is one priced leg between two nodes of the route graph.
type Edge struct {
	From, To string
	Price    float64
	Leg      models.Leg
}

type Finder struct {
	searcher LegSearcher
	config   Config
}

func NewFinder(searcher LegSearcher, config Config) *Finder {
	if len(config.Hubs) == 0 {
		config.Hubs = DefaultHubs
	}
	if config.MaxPairs <= 0 {
		config.MaxPairs = DefaultMaxPairs
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	if config.Tracer == nil {
		config.Tracer = tracenoop.NewTracerProvider().Tracer("")
	}
	return &Finder{searcher: searcher, config: config}
}

// CheapestPath looks for a one-connection itinerary cheaper than directMin.
// It returns nil when there is none, or when anything goes wrong.
func (f *Finder) CheapestPath(ctx context.Context, origin, dest, date string, directMin float64) (result *models.MultiHopResult) {
	ctx, span := f.config.Tracer.Start(ctx, "graph.CheapestPath", trace.WithAttributes(
		attribute.String("origin", origin),
		attribute.String("destination", dest),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			f.config.Logger.Warn().Interface("panic", r).Msg("route graph search panicked")
			span.SetStatus(codes.Error, "panic")
			result = nil
		}
	}()

	if origin == "" || dest == "" || origin == dest {
		return nil
	}

	pairs := f.pairs(origin, dest)
	edges := f.buildEdges(ctx, pairs, date)
	span.SetAttributes(attribute.Int("pairs", len(pairs)), attribute.Int("edges", len(edges)))

	found := Dijkstra(origin, dest, edges)
	if found == nil || found.TotalPrice >= directMin {
		return nil
	}
	return found
}

// pairs lists the ordered pairs to query. Pairs a one-connection itinerary can
// use (origin to hub, hub to destination) come first, then hub-to-hub pairs.
// The direct pair, pairs leaving the destination and pairs entering the origin
// are never queried.
func (f *Finder) pairs(origin, dest string) [][2]string {
	endpoints := []string{origin, dest}
	for _, h := range f.config.Hubs {
		if !slices.Contains(endpoints, h) {
			endpoints = append(endpoints, h)
		}
	}
	isHub := func(code string) bool { return slices.Contains(f.config.Hubs, code) }

	var primary, secondary [][2]string
	for _, a := range endpoints {
		for _, b := range endpoints {
			if a == b || (a == origin && b == dest) {
				continue
			}
			switch {
			case a == origin || b == dest:
				primary = append(primary, [2]string{a, b})
			case a == dest || b == origin:
			case isHub(a) && isHub(b):
				secondary = append(secondary, [2]string{a, b})
			}
		}
	}

	all := append(primary, secondary...)
	if len(all) > f.config.MaxPairs {
		all = all[:f.config.MaxPairs]
	}
	return all
}

func (f *Finder) buildEdges(ctx context.Context, pairs [][2]string, date string) []Edge {
	perPair := make([][]Edge, len(pairs))

	var g errgroup.Group
	g.SetLimit(f.config.Concurrency)
	for i, p := range pairs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					f.config.Logger.Warn().
						Str("origin", p[0]).
						Str("destination", p[1]).
						Interface("panic", r).
						Msg("pair search panicked")
				}
			}()

			legs := aggregator.Aggregate(f.searcher.Search(ctx, p[0], p[1], date, models.ModeAll), date)
			es := make([]Edge, 0, len(legs))
			for _, leg := range legs {
				es = append(es, Edge{From: p[0], To: p[1], Price: leg.Price, Leg: leg})
			}
			perPair[i] = es
			return nil
		})
	}
	_ = g.Wait()

	var edges []Edge
	for _, es := range perPair {
		edges = append(edges, es...)
	}
	return edges
}

// Dijkstra finds the cheapest path of at most two edges from origin to dest,
// never revisiting a node. Equal-cost candidates resolve in discovery order.
func Dijkstra(origin, dest string, edges []Edge) *models.MultiHopResult {
	adj := make(map[string][]Edge)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e)
	}

	seq := 0
	pq := &frontier{{cost: 0, seq: seq, node: origin, path: []string{origin}}}
	visited := make(map[string]float64)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*state)

		if cur.node == dest {
			return &models.MultiHopResult{
				Path:       cur.path,
				TotalPrice: currency.Round2(cur.cost),
				Legs:       cur.legs,
			}
		}
		if cur.hops >= maxHops {
			continue
		}

		key := fmt.Sprintf("%s:%d", cur.node, cur.hops)
		if best, ok := visited[key]; ok && best <= cur.cost {
			continue
		}
		visited[key] = cur.cost

		for _, e := range adj[cur.node] {
			if slices.Contains(cur.path, e.To) {
				continue
			}
			seq++
			heap.Push(pq, &state{
				cost: cur.cost + e.Price,
				seq:  seq,
				hops: cur.hops + 1,
				node: e.To,
				path: append(slices.Clone(cur.path), e.To),
				legs: append(slices.Clone(cur.legs), e.Leg),
			})
		}
	}
	return nil
}
