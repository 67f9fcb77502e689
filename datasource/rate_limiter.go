package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weather-dashboard/models"
)

// RateLimitedProvider wraps a WeatherSource and Geocoder with rate limiting.
// The weather and geocoding endpoints share one limiter since the provider
// counts every call against the same key.
type RateLimitedProvider struct {
	source   WeatherSource
	geocoder Geocoder
	limiter  *rate.Limiter
	name     string
}

// RateLimitedSource is what the rate limited provider wraps
type RateLimitedSource interface {
	WeatherSource
	Geocoder
}

// NewRateLimitedProvider creates a rate limited provider.
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedProvider(provider RateLimitedSource, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		source:   provider,
		geocoder: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

func (r *RateLimitedProvider) wait(ctx context.Context) error {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit wait canceled: %v", models.ErrNetwork, err)
	}
	return nil
}

// FetchCurrent fetches current weather, respecting rate limits
func (r *RateLimitedProvider) FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentWeather, error) {
	if err := r.wait(ctx); err != nil {
		return models.CurrentWeather{}, err
	}
	return r.source.FetchCurrent(ctx, coord)
}

// FetchForecast fetches forecast buckets, respecting rate limits
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, coord models.Coordinate) ([]models.ForecastEntry, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.source.FetchForecast(ctx, coord)
}

// Geocode resolves a place name, respecting rate limits
func (r *RateLimitedProvider) Geocode(ctx context.Context, query string, limit int) ([]models.Coordinate, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.geocoder.Geocode(ctx, query, limit)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

// Verify that our rate limited type implements the required interfaces
var (
	_ WeatherSource = (*RateLimitedProvider)(nil)
	_ Geocoder      = (*RateLimitedProvider)(nil)
)
