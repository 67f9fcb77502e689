package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"weather-dashboard/logger"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
)

const (
	weatherAPIBaseURL = "https://api.weatherapi.com"

	weatherAPICurrentEndpoint = "/v1/current.json"
)

// WeatherAPIProvider supplies the UV index from WeatherAPI
type WeatherAPIProvider struct {
	apiKey string
	client *resty.Client
	log    *zap.Logger
}

// NewWeatherAPIProvider creates a new WeatherAPI provider
func NewWeatherAPIProvider(apiKey string, opts ClientOptions) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		apiKey: apiKey,
		client: newRestyClient(opts, weatherAPIBaseURL),
		log:    logger.OrNop(opts.Logger),
	}
}

// Name returns the provider name
func (p *WeatherAPIProvider) Name() string {
	return "WeatherAPI"
}

// FetchUV fetches the current UV index for a coordinate
func (p *WeatherAPIProvider) FetchUV(ctx context.Context, coord models.Coordinate) (float64, error) {
	started := time.Now()

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": p.apiKey,
			"q":   fmt.Sprintf("%f,%f", coord.Lat, coord.Lon),
		}).
		Get(weatherAPICurrentEndpoint)

	err = classify(resp, err)
	metrics.ObserveUpstream(weatherAPICurrentEndpoint, started, err)
	if err != nil {
		return 0, err
	}

	var response struct {
		Current *struct {
			UV *float64 `json:"uv"`
		} `json:"current"`
	}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return 0, malformed("UV response", err)
	}
	if response.Current == nil || response.Current.UV == nil {
		return 0, fmt.Errorf("%w: response has no uv field", models.ErrDataMalformed)
	}

	p.log.Debug("fetched uv index", zap.Float64("uv", *response.Current.UV), zap.Stringer("coord", coord))
	return *response.Current.UV, nil
}

var _ UVSource = (*WeatherAPIProvider)(nil)
