package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/location"
	"weather-dashboard/logger"
)

// CachedGeolocator wraps a Geolocator and reuses a fix while it is younger
// than the request's MaximumAge
type CachedGeolocator struct {
	source   location.Geolocator
	last     *location.Fix
	mutex    sync.RWMutex
	now      func() time.Time
	hitCount int
	log      *zap.Logger
}

// NewCachedGeolocator creates a new cached wrapper around a geolocator
func NewCachedGeolocator(source location.Geolocator, log *zap.Logger) *CachedGeolocator {
	return &CachedGeolocator{
		source: source,
		now:    time.Now,
		log:    logger.OrNop(log),
	}
}

// Position returns the cached fix when fresh enough, otherwise reads a new one
func (c *CachedGeolocator) Position(ctx context.Context, opts location.PositionOptions) (location.Fix, error) {
	c.mutex.RLock()
	last := c.last
	c.mutex.RUnlock()

	if last != nil && opts.MaximumAge > 0 {
		age := c.now().Sub(last.AcquiredAt)
		if age < opts.MaximumAge {
			c.mutex.Lock()
			c.hitCount++
			c.mutex.Unlock()

			c.log.Debug("reusing cached position", zap.Duration("age", age.Round(time.Second)))
			return *last, nil
		}
	}

	fix, err := c.source.Position(ctx, opts)
	if err != nil {
		return location.Fix{}, err
	}
	if fix.AcquiredAt.IsZero() {
		fix.AcquiredAt = c.now()
	}

	c.mutex.Lock()
	c.last = &fix
	c.mutex.Unlock()

	return fix, nil
}

// Hits returns how many requests were served from the cached fix
func (c *CachedGeolocator) Hits() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.hitCount
}

// Ensure CachedGeolocator implements the Geolocator interface
var _ location.Geolocator = (*CachedGeolocator)(nil)
