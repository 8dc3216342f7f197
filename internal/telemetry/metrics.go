package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

// Metrics are the search engine's counters and latency histogram.
type Metrics struct {
	requests  metric.Int64Counter
	fallbacks metric.Int64Counter
	multiHop  metric.Int64Counter
	failures  metric.Int64Counter
	duration  metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requests, err = meter.Int64Counter("search.requests",
		metric.WithDescription("Searches answered, by cache outcome")); err != nil {
		return nil, err
	}
	if m.fallbacks, err = meter.Int64Counter("search.fallbacks",
		metric.WithDescription("Searches answered from the demo timetable")); err != nil {
		return nil, err
	}
	if m.multiHop, err = meter.Int64Counter("search.multihop_found",
		metric.WithDescription("Searches where a cheaper connection was found")); err != nil {
		return nil, err
	}
	if m.failures, err = meter.Int64Counter("provider.failures",
		metric.WithDescription("Provider calls that produced no legs because of an error")); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("search.duration_ms",
		metric.WithDescription("End-to-end search latency"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	return &m, nil
}

// NoopMetrics records nothing.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(metricnoop.NewMeterProvider().Meter(""))
	return m
}

func (m *Metrics) SearchCompleted(ctx context.Context, cached bool, elapsed time.Duration) {
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cached", cached)))
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000)
}

func (m *Metrics) Fallback(ctx context.Context) {
	m.fallbacks.Add(ctx, 1)
}

func (m *Metrics) MultiHopFound(ctx context.Context) {
	m.multiHop.Add(ctx, 1)
}

func (m *Metrics) ProviderFailure(ctx context.Context, provider string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}
