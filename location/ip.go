package location

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"weather-dashboard/models"
)

const defaultIPLookupURL = "http://ip-api.com/json/"

// IPGeolocator approximates the device position from its public IP address
type IPGeolocator struct {
	client *resty.Client
	url    string
}

// NewIPGeolocator creates a geolocator querying lookupURL (an ip-api.com compatible endpoint)
func NewIPGeolocator(lookupURL string) *IPGeolocator {
	if lookupURL == "" {
		lookupURL = defaultIPLookupURL
	}
	return &IPGeolocator{
		client: resty.New().SetHeader("User-Agent", "weather-dashboard/1.0"),
		url:    lookupURL,
	}
}

// Position performs one lookup; the request is bounded by ctx and opts.Timeout
func (g *IPGeolocator) Position(ctx context.Context, opts PositionOptions) (Fix, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("fields", "status,message,lat,lon,city,countryCode").
		Get(g.url)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: ip lookup: %v", models.ErrLocationUnavailable, err)
	}
	if !resp.IsSuccess() {
		return Fix{}, fmt.Errorf("%w: ip lookup returned %s", models.ErrLocationUnavailable, resp.Status())
	}

	var payload struct {
		Status      string  `json:"status"`
		Message     string  `json:"message"`
		Lat         float64 `json:"lat"`
		Lon         float64 `json:"lon"`
		City        string  `json:"city"`
		CountryCode string  `json:"countryCode"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return Fix{}, fmt.Errorf("%w: ip lookup: %v", models.ErrLocationUnavailable, err)
	}
	if payload.Status != "success" {
		return Fix{}, fmt.Errorf("%w: ip lookup: %s", models.ErrLocationUnavailable, payload.Message)
	}

	return Fix{
		Coordinate: models.Coordinate{
			Lat:     payload.Lat,
			Lon:     payload.Lon,
			Name:    payload.City,
			Country: payload.CountryCode,
		},
		AcquiredAt: time.Now(),
	}, nil
}
