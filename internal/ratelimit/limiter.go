package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Limit is a token bucket setting. The zero Limit never throttles.
type Limit struct {
	PerSecond float64
	Burst     int
}

func (l Limit) bucket() *rate.Limiter {
	if l.PerSecond <= 0 || rate.Limit(l.PerSecond) == rate.Inf {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(l.PerSecond), max(l.Burst, 1))
}

// ProviderLimiter paces calls to each provider with its own bucket. Providers
// seen for the first time get the fallback limit.
type ProviderLimiter struct {
	fallback Limit

	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
}

func New(fallback Limit, perProvider map[string]Limit) *ProviderLimiter {
	p := &ProviderLimiter{
		fallback: fallback,
		buckets:  make(map[string]*rate.Limiter, len(perProvider)),
	}
	for name, l := range perProvider {
		p.buckets[name] = l.bucket()
	}
	return p
}

func NewUnlimited() *ProviderLimiter {
	return New(Limit{}, nil)
}

func (p *ProviderLimiter) For(provider string) *rate.Limiter {
	p.mu.RLock()
	b, ok := p.buckets[provider]
	p.mu.RUnlock()
	if ok {
		return b
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if b, ok = p.buckets[provider]; ok {
		return b
	}
	b = p.fallback.bucket()
	p.buckets[provider] = b
	return b
}

// Set replaces the bucket of provider.
func (p *ProviderLimiter) Set(provider string, l Limit) {
	p.mu.Lock()
	p.buckets[provider] = l.bucket()
	p.mu.Unlock()
}

// Wait blocks until provider may be called or ctx ends.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	if err := p.For(provider).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", provider, err)
	}
	return nil
}
