// Package resilience provides rate limiting for catalogue
// invocations.
package resilience

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter controls invocation rate per catalogue. It satisfies
// the runner's rate limiter contract.
type RateLimiter interface {
	// Allow checks if an invocation is allowed for the catalogue.
	Allow(catalog string) bool

	// Wait blocks until an invocation is allowed or the context is
	// canceled.
	Wait(ctx context.Context, catalog string) error

	// SetLimit updates the rate limit for a catalogue.
	SetLimit(catalog string, limit rate.Limit, burst int)
}

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// DefaultLimit is the default invocations per second.
	DefaultLimit float64

	// DefaultBurst is the default burst size.
	DefaultBurst int

	// PerCatalog enables per-catalogue rate limiting.
	PerCatalog bool

	// CatalogLimits contains per-catalogue rate limits.
	CatalogLimits map[string]CatalogLimit
}

// CatalogLimit defines the rate limit for a specific catalogue.
type CatalogLimit struct {
	Limit float64
	Burst int
}

// DefaultRateLimiterConfig returns default configuration.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		DefaultLimit:  100,
		DefaultBurst:  150,
		PerCatalog:    true,
		CatalogLimits: make(map[string]CatalogLimit),
	}
}

// rateLimiter implements RateLimiter.
type rateLimiter struct {
	config          RateLimiterConfig
	globalLimiter   *rate.Limiter
	catalogLimiters map[string]*rate.Limiter
	mu              sync.RWMutex
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) RateLimiter {
	rl := &rateLimiter{
		config:          config,
		globalLimiter:   rate.NewLimiter(rate.Limit(config.DefaultLimit), config.DefaultBurst),
		catalogLimiters: make(map[string]*rate.Limiter),
	}

	for catalog, limit := range config.CatalogLimits {
		rl.catalogLimiters[catalog] = rate.NewLimiter(rate.Limit(limit.Limit), limit.Burst)
	}

	return rl
}

// Allow implements RateLimiter.Allow.
func (rl *rateLimiter) Allow(catalog string) bool {
	if !rl.config.PerCatalog {
		return rl.globalLimiter.Allow()
	}
	return rl.getLimiter(catalog).Allow()
}

// Wait implements RateLimiter.Wait.
func (rl *rateLimiter) Wait(ctx context.Context, catalog string) error {
	if !rl.config.PerCatalog {
		return rl.globalLimiter.Wait(ctx)
	}
	return rl.getLimiter(catalog).Wait(ctx)
}

// SetLimit implements RateLimiter.SetLimit.
func (rl *rateLimiter) SetLimit(catalog string, limit rate.Limit, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.catalogLimiters[catalog]; ok {
		limiter.SetLimit(limit)
		limiter.SetBurst(burst)
	} else {
		rl.catalogLimiters[catalog] = rate.NewLimiter(limit, burst)
	}
}

func (rl *rateLimiter) getLimiter(catalog string) *rate.Limiter {
	rl.mu.RLock()
	limiter, ok := rl.catalogLimiters[catalog]
	rl.mu.RUnlock()

	if ok {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if existing, ok := rl.catalogLimiters[catalog]; ok {
		return existing
	}

	newLimiter := rate.NewLimiter(rate.Limit(rl.config.DefaultLimit), rl.config.DefaultBurst)
	rl.catalogLimiters[catalog] = newLimiter
	return newLimiter
}
