package datasource

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"weather-dashboard/logger"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
)

const (
	openWeatherMapBaseURL = "https://api.openweathermap.org"

	currentEndpoint  = "/data/2.5/weather"
	forecastEndpoint = "/data/2.5/forecast"
	geocodeEndpoint  = "/geo/1.0/direct"
)

// OpenWeatherMapProvider implements WeatherSource and Geocoder
type OpenWeatherMapProvider struct {
	apiKey string
	client *resty.Client
	log    *zap.Logger
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider
func NewOpenWeatherMapProvider(apiKey string, opts ClientOptions) *OpenWeatherMapProvider {
	return &OpenWeatherMapProvider{
		apiKey: apiKey,
		client: newRestyClient(opts, openWeatherMapBaseURL),
		log:    logger.OrNop(opts.Logger),
	}
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

// get performs one GET and returns the raw body of a 2xx response
func (p *OpenWeatherMapProvider) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	started := time.Now()

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("appid", p.apiKey).
		Get(endpoint)

	err = classify(resp, err)
	metrics.ObserveUpstream(endpoint, started, err)
	if err != nil {
		p.log.Warn("provider request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}
	return resp.Body(), nil
}

func coordParams(coord models.Coordinate) map[string]string {
	return map[string]string{
		"lat":   strconv.FormatFloat(coord.Lat, 'f', -1, 64),
		"lon":   strconv.FormatFloat(coord.Lon, 'f', -1, 64),
		"units": "metric",
	}
}

type owmCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// firstCondition returns nil for an empty weather array
func firstCondition(list []owmCondition) *models.Condition {
	if len(list) == 0 {
		return nil
	}
	return &models.Condition{Description: list[0].Description, Icon: list[0].Icon}
}

// FetchCurrent fetches current weather for a coordinate
func (p *OpenWeatherMapProvider) FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentWeather, error) {
	body, err := p.get(ctx, currentEndpoint, coordParams(coord))
	if err != nil {
		return models.CurrentWeather{}, err
	}

	var response struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Visibility float64 `json:"visibility"`
		Wind       struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []owmCondition `json:"weather"`
		Dt      int64          `json:"dt"`
		Name    string         `json:"name"`
		Sys     struct {
			Country string `json:"country"`
		} `json:"sys"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return models.CurrentWeather{}, malformed("current weather", err)
	}

	timestamp := time.Now()
	if response.Dt != 0 {
		timestamp = time.Unix(response.Dt, 0)
	}

	return models.CurrentWeather{
		Name:        response.Name,
		Country:     response.Sys.Country,
		Temperature: response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		Humidity:    response.Main.Humidity,
		Pressure:    response.Main.Pressure,
		Visibility:  response.Visibility,
		WindSpeed:   response.Wind.Speed,
		Condition:   firstCondition(response.Weather),
		Timestamp:   timestamp,
	}, nil
}

// FetchForecast fetches the 5-day forecast, which OpenWeatherMap returns in 3-hour steps
func (p *OpenWeatherMapProvider) FetchForecast(ctx context.Context, coord models.Coordinate) ([]models.ForecastEntry, error) {
	body, err := p.get(ctx, forecastEndpoint, coordParams(coord))
	if err != nil {
		return nil, err
	}

	var response struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main *struct {
				Temp     *float64 `json:"temp"`
				TempMin  *float64 `json:"temp_min"`
				TempMax  *float64 `json:"temp_max"`
				Humidity float64  `json:"humidity"`
				Pressure float64  `json:"pressure"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Weather []owmCondition `json:"weather"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, malformed("forecast", err)
	}

	entries := make([]models.ForecastEntry, 0, len(response.List))
	for _, item := range response.List {
		entry := models.ForecastEntry{
			WindSpeed: item.Wind.Speed,
			Condition: firstCondition(item.Weather),
		}
		if item.Dt != 0 {
			entry.Time = time.Unix(item.Dt, 0)
		}
		if item.Main != nil {
			entry.Temp = item.Main.Temp
			entry.TempMin = item.Main.TempMin
			entry.TempMax = item.Main.TempMax
			entry.Humidity = item.Main.Humidity
			entry.Pressure = item.Main.Pressure
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Geocode resolves a place name through the direct geocoding endpoint
func (p *OpenWeatherMapProvider) Geocode(ctx context.Context, query string, limit int) ([]models.Coordinate, error) {
	if limit <= 0 {
		limit = 1
	}
	body, err := p.get(ctx, geocodeEndpoint, map[string]string{
		"q":     query,
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	var response []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, malformed("geocoding response", err)
	}

	coords := make([]models.Coordinate, 0, len(response))
	for _, r := range response {
		coords = append(coords, models.Coordinate{Lat: r.Lat, Lon: r.Lon, Name: r.Name, Country: r.Country})
	}
	return coords, nil
}

// Ping checks that the API key is accepted, using a cheap current-weather request
func (p *OpenWeatherMapProvider) Ping(ctx context.Context) error {
	_, err := p.get(ctx, currentEndpoint, map[string]string{"q": "London"})
	return err
}

// Verify that the provider implements the required interfaces
var (
	_ WeatherSource = (*OpenWeatherMapProvider)(nil)
	_ Geocoder      = (*OpenWeatherMapProvider)(nil)
)
