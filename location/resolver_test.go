package location_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weather-dashboard/location"
	"weather-dashboard/models"
)

// --- Mock geocoder / geolocator ---

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, query string, limit int) ([]models.Coordinate, error)
	calls     int
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string, limit int) ([]models.Coordinate, error) {
	m.calls++
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, query, limit)
	}
	return nil, nil
}

type geolocatorFunc func(ctx context.Context, opts location.PositionOptions) (location.Fix, error)

func (f geolocatorFunc) Position(ctx context.Context, opts location.PositionOptions) (location.Fix, error) {
	return f(ctx, opts)
}

// --- Tests ---

func TestResolveByQuery_EmptyQuery(t *testing.T) {
	geocoder := &mockGeocoder{}
	r := location.NewResolver(nil, geocoder, location.DefaultPositionOptions, nil)

	_, err := r.ResolveByQuery(context.Background(), "   \t ")
	if !errors.Is(err, models.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if geocoder.calls != 0 {
		t.Error("blank query must not reach the geocoder")
	}
}

func TestResolveByQuery_FirstMatch(t *testing.T) {
	geocoder := &mockGeocoder{
		geocodeFn: func(ctx context.Context, query string, limit int) ([]models.Coordinate, error) {
			if query != "Paris" || limit != 1 {
				t.Errorf("unexpected geocode call %q %d", query, limit)
			}
			return []models.Coordinate{{Lat: 48.85, Lon: 2.35, Name: "Paris", Country: "FR"}}, nil
		},
	}
	r := location.NewResolver(nil, geocoder, location.DefaultPositionOptions, nil)

	coord, err := r.ResolveByQuery(context.Background(), "  Paris ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Name != "Paris" || coord.Country != "FR" {
		t.Errorf("unexpected coordinate %+v", coord)
	}
}

func TestResolveByQuery_NotFound(t *testing.T) {
	r := location.NewResolver(nil, &mockGeocoder{}, location.DefaultPositionOptions, nil)

	_, err := r.ResolveByQuery(context.Background(), "Atlantis")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveByQuery_PropagatesClientErrors(t *testing.T) {
	geocoder := &mockGeocoder{
		geocodeFn: func(ctx context.Context, query string, limit int) ([]models.Coordinate, error) {
			return nil, models.ErrUnauthorized
		},
	}
	r := location.NewResolver(nil, geocoder, location.DefaultPositionOptions, nil)

	_, err := r.ResolveByQuery(context.Background(), "Oslo")
	if !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestResolveByDevice_Unsupported(t *testing.T) {
	r := location.NewResolver(nil, &mockGeocoder{}, location.DefaultPositionOptions, nil)

	_, err := r.ResolveByDevice(context.Background())
	if !errors.Is(err, models.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
}

func TestResolveByDevice_Denied(t *testing.T) {
	denied := geolocatorFunc(func(ctx context.Context, opts location.PositionOptions) (location.Fix, error) {
		return location.Fix{}, errors.New("permission denied")
	})
	r := location.NewResolver(denied, &mockGeocoder{}, location.DefaultPositionOptions, nil)

	_, err := r.ResolveByDevice(context.Background())
	if !errors.Is(err, models.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
}

func TestResolveByDevice_Timeout(t *testing.T) {
	slow := geolocatorFunc(func(ctx context.Context, opts location.PositionOptions) (location.Fix, error) {
		<-ctx.Done()
		return location.Fix{}, ctx.Err()
	})
	opts := location.DefaultPositionOptions
	opts.Timeout = 20 * time.Millisecond
	r := location.NewResolver(slow, &mockGeocoder{}, opts, nil)

	start := time.Now()
	_, err := r.ResolveByDevice(context.Background())
	if !errors.Is(err, models.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("device lookup should be bounded by the timeout")
	}
}

func TestStaticGeolocator(t *testing.T) {
	coord := models.Coordinate{Lat: 32.7767, Lon: -96.797, Name: "Dallas, TX"}
	r := location.NewResolver(location.NewStaticGeolocator(&coord), &mockGeocoder{}, location.DefaultPositionOptions, nil)

	got, err := r.ResolveByDevice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != coord {
		t.Errorf("expected %+v, got %+v", coord, got)
	}

	_, err = location.NewStaticGeolocator(nil).Position(context.Background(), location.DefaultPositionOptions)
	if !errors.Is(err, models.ErrLocationUnavailable) {
		t.Errorf("expected unconfigured static geolocator to be unavailable, got %v", err)
	}
}

func TestIPGeolocator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","lat":43.26,"lon":-2.93,"city":"Bilbao","countryCode":"ES"}`))
	}))
	defer srv.Close()

	fix, err := location.NewIPGeolocator(srv.URL).Position(context.Background(), location.DefaultPositionOptions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Coordinate.Name != "Bilbao" || fix.Coordinate.Country != "ES" || fix.AcquiredAt.IsZero() {
		t.Errorf("unexpected fix %+v", fix)
	}
}

func TestIPGeolocator_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	_, err := location.NewIPGeolocator(srv.URL).Position(context.Background(), location.DefaultPositionOptions)
	if !errors.Is(err, models.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
}
