package location

import (
	"context"
	"time"

	"weather-dashboard/models"
)

// PositionOptions mirror the knobs of a device position request
type PositionOptions struct {
	HighAccuracy bool
	// Timeout bounds how long one position request may take
	Timeout time.Duration
	// MaximumAge is how old a previously acquired fix may be and still be reused
	MaximumAge time.Duration
}

// DefaultPositionOptions are the options used for device lookups
var DefaultPositionOptions = PositionOptions{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaximumAge:   5 * time.Minute,
}

// Fix is a device position together with when it was acquired
type Fix struct {
	Coordinate models.Coordinate
	AcquiredAt time.Time
}

// Geolocator is the device position capability
type Geolocator interface {
	// Position returns the best-effort current position. Implementations return
	// an error when the position is denied, unsupported or not available in time.
	Position(ctx context.Context, opts PositionOptions) (Fix, error)
}
