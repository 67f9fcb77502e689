package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// CachedGeocoder wraps a Geocoder and remembers resolved queries.
// Only geocoding results are cached; weather payloads never are.
type CachedGeocoder struct {
	source         datasource.Geocoder
	cache          map[string]geocodeCacheEntry // key is normalized query:limit
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
}

// geocodeCacheEntry represents cached geocoding matches with their timestamp
type geocodeCacheEntry struct {
	Matches   []models.Coordinate
	Timestamp time.Time
}

// NewCachedGeocoder creates a new cached wrapper around a geocoder
func NewCachedGeocoder(source datasource.Geocoder, cacheDuration time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		source:        source,
		cache:         make(map[string]geocodeCacheEntry),
		cacheDuration: cacheDuration,
	}
}

// Geocode resolves a query, using the cache when available. Empty results
// are not cached so a retried search always reaches the provider.
func (c *CachedGeocoder) Geocode(ctx context.Context, query string, limit int) ([]models.Coordinate, error) {
	cacheKey := fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)

	c.mutex.RLock()
	entry, found := c.cache[cacheKey]
	c.mutex.RUnlock()

	if found && time.Since(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()
		return append([]models.Coordinate(nil), entry.Matches...), nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	matches, err := c.source.Geocode(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 {
		c.mutex.Lock()
		c.cache[cacheKey] = geocodeCacheEntry{
			Matches:   append([]models.Coordinate(nil), matches...),
			Timestamp: time.Now(),
		}
		c.mutex.Unlock()
	}

	return matches, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedGeocoder) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedGeocoder implements Geocoder
var _ datasource.Geocoder = (*CachedGeocoder)(nil)
