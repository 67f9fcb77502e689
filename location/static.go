package location

import (
	"context"
	"fmt"
	"time"

	"weather-dashboard/models"
)

// StaticGeolocator reports a fixed, configured position. A nil coordinate
// means the host has no position capability.
type StaticGeolocator struct {
	coord *models.Coordinate
}

// NewStaticGeolocator creates a geolocator for a fixed position
func NewStaticGeolocator(coord *models.Coordinate) *StaticGeolocator {
	return &StaticGeolocator{coord: coord}
}

// Position returns the configured coordinate
func (s *StaticGeolocator) Position(ctx context.Context, _ PositionOptions) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, fmt.Errorf("%w: %v", models.ErrLocationUnavailable, err)
	}
	if s.coord == nil {
		return Fix{}, fmt.Errorf("%w: no static position configured", models.ErrLocationUnavailable)
	}
	return Fix{Coordinate: *s.coord, AcquiredAt: time.Now()}, nil
}
