package search

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/dharmasatrya/tripsearch/internal/aggregator"
	"github.com/dharmasatrya/tripsearch/internal/cache"
	"github.com/dharmasatrya/tripsearch/internal/location"
	"github.com/dharmasatrya/tripsearch/internal/models"
	"github.com/dharmasatrya/tripsearch/internal/providers"
	"github.com/dharmasatrya/tripsearch/internal/ranking"
	"github.com/dharmasatrya/tripsearch/internal/telemetry"
	"github.com/dharmasatrya/tripsearch/pkg/currency"
)

type Normalizer interface {
	Normalize(input string) string
	CityName(code string) string
}

type LegSearcher interface {
	Search(ctx context.Context, origin, dest, date string, mode models.Mode) [][]models.Leg
}

type PathFinder interface {
	CheapestPath(ctx context.Context, origin, dest, date string, directMin float64) *models.MultiHopResult
}

type ResultCache interface {
	Get(ctx context.Context, key string) (*models.SearchResponse, bool)
	Set(ctx context.Context, key string, value *models.SearchResponse, ttl time.Duration) error
	Invalidate(ctx context.Context, substring string) int
}

type Config struct {
	Normalizer     Normalizer
	Providers      LegSearcher
	Graph          PathFinder
	Cache          ResultCache
	Ranker         ranking.Ranker
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	Metrics        *telemetry.Metrics
	Tracer         trace.Tracer
	Logger         zerolog.Logger
	Now            func() time.Time
}

type Engine struct {
	config Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.Normalizer == nil {
		cfg.Normalizer = location.Default
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewTieredCache(cache.NoOpStore{})
	}
	if cfg.Ranker == (ranking.Ranker{}) {
		cfg.Ranker = ranking.Ranker{Weights: ranking.DefaultWeights}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NoopMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracenoop.NewTracerProvider().Tracer("")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{config: cfg}
}

// Search answers a validated request. It always produces a response: provider
// failures yield fewer legs, an empty provider set yields the demo timetable
// and an unexpected panic yields the same fallback.
func (e *Engine) Search(ctx context.Context, req models.SearchRequest) (resp *models.SearchResponse) {
	start := e.config.Now()

	var query models.SearchQuery
	defer func() {
		if r := recover(); r != nil {
			e.config.Logger.Error().Interface("panic", r).
				Str("origin", query.Origin).
				Str("destination", query.Destination).
				Msg("search panicked, serving fallback")
			resp = e.fallback(query, start)
		}
	}()

	query = e.normalize(req)

	ctx, span := e.config.Tracer.Start(ctx, "search.Engine.Search", trace.WithAttributes(
		attribute.String("origin", query.Origin),
		attribute.String("destination", query.Destination),
		attribute.String("date", query.Date),
		attribute.String("mode", string(query.Mode)),
	))
	defer span.End()

	key := cache.BuildKey(query.Origin, query.Destination, query.Date, query.Mode)
	if hit, ok := e.config.Cache.Get(ctx, key); ok {
		hit.Cached = true
		hit.ResponseMs = e.elapsed(start)
		span.SetAttributes(attribute.Bool("cached", true))
		e.config.Metrics.SearchCompleted(ctx, true, time.Duration(hit.ResponseMs)*time.Millisecond)
		return hit
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.config.RequestTimeout)
	defer cancel()

	direct := aggregator.Aggregate(e.config.Providers.Search(reqCtx, query.Origin, query.Destination, query.Date, query.Mode), query.Date)

	demo := false
	if len(direct) == 0 {
		demo = true
		direct = aggregator.Aggregate([][]models.Leg{providers.DemoLegs(query.Origin, query.Destination, query.Date, query.Mode)}, query.Date)
		e.config.Metrics.Fallback(ctx)
		e.config.Logger.Info().
			Str("origin", query.Origin).
			Str("destination", query.Destination).
			Msg("no provider results, serving demo timetable")
	}

	var (
		multiHop *models.MultiHopResult
		wg       sync.WaitGroup
	)
	directMin := cheapest(direct)
	if query.MultiHop && query.Mode == models.ModeAll && e.config.Graph != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.config.Logger.Warn().Interface("panic", r).Msg("route graph search panicked")
				}
			}()
			multiHop = e.config.Graph.CheapestPath(reqCtx, query.Origin, query.Destination, query.Date, directMin)
		}()
	}

	ranked := e.config.Ranker.Rank(direct)
	wg.Wait()

	if multiHop != nil {
		multiHop.Saving = currency.Round2(directMin - multiHop.TotalPrice)
		multiHop.BookingURLs = make([]string, len(multiHop.Legs))
		for i, leg := range multiHop.Legs {
			multiHop.BookingURLs[i] = leg.BookingURL
		}
		e.config.Metrics.MultiHopFound(ctx)
		e.config.Logger.Info().
			Strs("path", multiHop.Path).
			Str("total", currency.FormatEUR(multiHop.TotalPrice)).
			Str("saving", currency.FormatEUR(multiHop.Saving)).
			Bool("demo", demo).
			Msg("cheaper connection found")
	}

	resp = &models.SearchResponse{
		Origin:          query.Origin,
		Destination:     query.Destination,
		OriginCity:      e.config.Normalizer.CityName(query.Origin),
		DestinationCity: e.config.Normalizer.CityName(query.Destination),
		Date:            query.Date,
		Mode:            query.Mode,
		Results:         ranked,
		MultiHop:        multiHop,
		Count:           len(ranked),
		Demo:            demo,
		ResponseMs:      e.elapsed(start),
	}

	if err := e.config.Cache.Set(ctx, key, resp, e.config.CacheTTL); err != nil {
		e.config.Logger.Warn().Err(err).Str("key", key).Msg("failed to store search result")
	}

	span.SetAttributes(attribute.Bool("cached", false), attribute.Bool("demo", demo), attribute.Int("count", resp.Count))
	e.config.Metrics.SearchCompleted(ctx, false, time.Duration(resp.ResponseMs)*time.Millisecond)
	return resp
}

// SearchRoundTrip runs the outbound and the return searches concurrently and
// attaches the return results. The return leg never runs the graph search.
func (e *Engine) SearchRoundTrip(ctx context.Context, req models.SearchRequest) *models.SearchResponse {
	if req.ReturnDate == nil || *req.ReturnDate == "" {
		return e.Search(ctx, req)
	}

	returnReq := models.SearchRequest{
		Origin:      req.Destination,
		Destination: req.Origin,
		Date:        *req.ReturnDate,
		Mode:        req.Mode,
		MultiHop:    false,
	}

	var (
		outbound, inbound *models.SearchResponse
		wg                sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		outbound = e.Search(ctx, req)
	}()
	go func() {
		defer wg.Done()
		inbound = e.Search(ctx, returnReq)
	}()
	wg.Wait()

	outbound.ReturnTrip = &models.ReturnTrip{
		Results:  inbound.Results,
		MultiHop: inbound.MultiHop,
	}
	return outbound
}

// InvalidateCache drops cached results whose key contains pattern.
func (e *Engine) InvalidateCache(ctx context.Context, pattern string) int {
	removed := e.config.Cache.Invalidate(ctx, pattern)
	e.config.Logger.Info().Str("pattern", pattern).Int("removed", removed).Msg("cache invalidated")
	return removed
}

func (e *Engine) Normalize(input string) (code, city string) {
	code = e.config.Normalizer.Normalize(input)
	return code, e.config.Normalizer.CityName(code)
}

func (e *Engine) normalize(req models.SearchRequest) models.SearchQuery {
	mode, err := models.ParseMode(string(req.Mode))
	if err != nil {
		mode = models.ModeAll
	}
	return models.SearchQuery{
		Origin:      e.config.Normalizer.Normalize(req.Origin),
		Destination: e.config.Normalizer.Normalize(req.Destination),
		Date:        req.Date,
		Mode:        mode,
		MultiHop:    req.MultiHop,
	}
}

func (e *Engine) fallback(query models.SearchQuery, start time.Time) *models.SearchResponse {
	legs := ranking.Rank(aggregator.Aggregate([][]models.Leg{providers.DemoLegs(query.Origin, query.Destination, query.Date, query.Mode)}, query.Date))
	return &models.SearchResponse{
		Origin:          query.Origin,
		Destination:     query.Destination,
		OriginCity:      query.Origin,
		DestinationCity: query.Destination,
		Date:            query.Date,
		Mode:            query.Mode,
		Results:         legs,
		Count:           len(legs),
		Demo:            true,
		ResponseMs:      e.elapsed(start),
	}
}

func (e *Engine) elapsed(start time.Time) int64 {
	return e.config.Now().Sub(start).Milliseconds()
}

func cheapest(legs []models.Leg) float64 {
	lowest := math.Inf(1)
	for _, l := range legs {
		lowest = math.Min(lowest, l.Price)
	}
	return lowest
}
