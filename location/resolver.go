// Package location turns a device fix or a free-text query into coordinates.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"weather-dashboard/datasource"
	"weather-dashboard/logger"
	"weather-dashboard/models"
)

// Resolver resolves locations for the dashboard
type Resolver struct {
	geolocator Geolocator
	geocoder   datasource.Geocoder
	opts       PositionOptions
	log        *zap.Logger
}

// NewResolver creates a resolver. geolocator may be nil, in which case device
// resolution always reports the location as unavailable.
func NewResolver(geolocator Geolocator, geocoder datasource.Geocoder, opts PositionOptions, log *zap.Logger) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPositionOptions.Timeout
	}
	return &Resolver{
		geolocator: geolocator,
		geocoder:   geocoder,
		opts:       opts,
		log:        logger.OrNop(log),
	}
}

// ResolveByDevice requests the current device position, bounded by the
// configured timeout. Any failure is reported as models.ErrLocationUnavailable
// and is not retried.
func (r *Resolver) ResolveByDevice(ctx context.Context) (models.Coordinate, error) {
	if r.geolocator == nil {
		return models.Coordinate{}, fmt.Errorf("%w: geolocation is not supported", models.ErrLocationUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	fix, err := r.geolocator.Position(ctx, r.opts)
	if err != nil {
		r.log.Warn("device position unavailable", zap.Error(err))
		if errors.Is(err, models.ErrLocationUnavailable) {
			return models.Coordinate{}, err
		}
		return models.Coordinate{}, fmt.Errorf("%w: %v", models.ErrLocationUnavailable, err)
	}
	return fix.Coordinate, nil
}

// ResolveByQuery geocodes text and returns the first match
func (r *Resolver) ResolveByQuery(ctx context.Context, text string) (models.Coordinate, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return models.Coordinate{}, models.ErrEmptyQuery
	}

	matches, err := r.geocoder.Geocode(ctx, query, 1)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(matches) == 0 {
		return models.Coordinate{}, fmt.Errorf("%w: %q", models.ErrNotFound, query)
	}

	r.log.Debug("resolved location query", zap.String("query", query), zap.Stringer("coord", matches[0]))
	return matches[0], nil
}
