package datasource

import (
	"context"

	"weather-dashboard/models"
)

// WeatherSource fetches current conditions and the 3-hour forecast for a coordinate
type WeatherSource interface {
	// FetchCurrent fetches the current weather snapshot
	FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentWeather, error)

	// FetchForecast fetches the flat, chronological list of 3-hour buckets
	FetchForecast(ctx context.Context, coord models.Coordinate) ([]models.ForecastEntry, error)

	// Name returns the source's name
	Name() string
}

// Geocoder resolves a free-text place name into coordinates
type Geocoder interface {
	Geocode(ctx context.Context, query string, limit int) ([]models.Coordinate, error)
}

// UVSource supplies the UV index, which the main weather source does not carry
type UVSource interface {
	FetchUV(ctx context.Context, coord models.Coordinate) (float64, error)
	Name() string
}
