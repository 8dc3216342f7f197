package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dharmasatrya/tripsearch/internal/models"
	"github.com/dharmasatrya/tripsearch/internal/providers"
	"github.com/dharmasatrya/tripsearch/internal/ratelimit"
	"github.com/dharmasatrya/tripsearch/internal/resilience"
)

// FailureRecorder is told about every provider call that ended without legs
// because of an error or panic.
type FailureRecorder interface {
	ProviderFailure(ctx context.Context, provider string)
}

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.ProviderLimiter
	Failures    FailureRecorder
	Logger      zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Timeout:     8 * time.Second,
		MaxRetries:  1,
		RetryDelays: []time.Duration{100 * time.Millisecond, 300 * time.Millisecond},
		Logger:      zerolog.Nop(),
	}
}

type Aggregator struct {
	providers []providers.Provider
	config    Config
}

func NewAggregator(providerList []providers.Provider, config Config) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Aggregator{
		providers: providerList,
		config:    config,
	}
}

// Search queries every provider relevant to mode concurrently and waits for all
// of them. The result has one slot per provider in registration order. Errors,
// timeouts and panics leave that provider's slot empty; nothing is returned as
// an error.
func (a *Aggregator) Search(ctx context.Context, origin, dest, date string, mode models.Mode) [][]models.Leg {
	results := make([][]models.Leg, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		if !mode.Includes(p.Type()) {
			continue
		}

		wg.Add(1)
		go func(i int, provider providers.Provider) {
			defer wg.Done()
			results[i] = a.searchProvider(ctx, provider, origin, dest, date)
		}(i, p)
	}
	wg.Wait()

	return results
}

func (a *Aggregator) searchProvider(ctx context.Context, provider providers.Provider, origin, dest, date string) (legs []models.Leg) {
	log := a.config.Logger.With().
		Str("provider", provider.Name()).
		Str("origin", origin).
		Str("destination", dest).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("provider panicked")
			a.recordFailure(ctx, provider.Name())
			legs = nil
		}
	}()

	if a.config.RateLimiter != nil {
		if err := a.config.RateLimiter.Wait(ctx, provider.Name()); err != nil {
			log.Warn().Err(err).Msg("provider rate limit wait aborted")
			a.recordFailure(ctx, provider.Name())
			return nil
		}
	}

	legs, err := a.searchWithRetry(ctx, provider, origin, dest, date)
	if errors.Is(err, providers.ErrNotConfigured) {
		log.Debug().Msg("provider not configured, skipping")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("provider search failed")
		a.recordFailure(ctx, provider.Name())
		return nil
	}
	return legs
}

func (a *Aggregator) searchWithRetry(ctx context.Context, provider providers.Provider, origin, dest, date string) ([]models.Leg, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(a.config.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(a.config.RetryDelays) {
				delayIdx = len(a.config.RetryDelays) - 1
			}

			select {
			case <-time.After(a.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		legs, err := provider.Search(callCtx, origin, dest, date)
		cancel()
		if err == nil {
			return legs, nil
		}

		lastErr = err
		if !retryable(err) {
			break
		}
		a.config.Logger.Debug().
			Str("provider", provider.Name()).
			Int("attempt", attempt+1).
			Err(err).
			Msg("provider attempt failed")
	}

	return nil, fmt.Errorf("after %d attempt(s): %w", a.config.MaxRetries+1, lastErr)
}

func (a *Aggregator) recordFailure(ctx context.Context, provider string) {
	if a.config.Failures != nil {
		a.config.Failures.ProviderFailure(ctx, provider)
	}
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, providers.ErrAuth),
		errors.Is(err, providers.ErrNotConfigured),
		errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}
