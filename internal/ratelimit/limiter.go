// Package ratelimit paces downstream search calls per region so a request
// that fans out across many markets cannot flood the search service.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type RegionLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewRegionLimiter(config Config) *RegionLimiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if config.BurstSize <= 0 {
		config.BurstSize = DefaultConfig().BurstSize
	}
	return &RegionLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func (l *RegionLimiter) limiter(region string) *rate.Limiter {
	l.mu.RLock()
	lim, exists := l.limiters[region]
	l.mu.RUnlock()

	if exists {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, exists = l.limiters[region]; exists {
		return lim
	}

	lim = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[region] = lim
	return lim
}

// SetRegionLimit overrides the pace for one region label.
func (l *RegionLimiter) SetRegionLimit(region string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[region] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the region's limiter releases a slot or ctx is done.
func (l *RegionLimiter) Wait(ctx context.Context, region string) error {
	return l.limiter(region).Wait(ctx)
}
