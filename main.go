package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/api"
	"weather-dashboard/cache"
	"weather-dashboard/collector"
	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/location"
	"weather-dashboard/logger"
	"weather-dashboard/models"
	"weather-dashboard/preferences"
	"weather-dashboard/render"
)

// geocodeCacheTTL bounds how long a resolved place name is reused
const geocodeCacheTTL = 24 * time.Hour

func main() {
	// Parse command line arguments
	configFile := flag.String("config", "", "Path to configuration file (default ./config.yaml)")
	port := flag.Int("port", 0, "Port to run the server on (overrides server.port)")
	city := flag.String("city", "", "Search this city at startup instead of using the device location")
	interactive := flag.Bool("interactive", true, "Read dashboard commands from stdin")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	// A bad credential does not stop the process; the dashboard shows a setup message instead
	credErr := cfg.CheckCredential()
	if credErr != nil {
		zlog.Warn("OpenWeatherMap API key is not usable", zap.Error(credErr))
	}

	// OpenWeatherMap free tier allows 60 calls/minute
	owm := datasource.NewOpenWeatherMapProvider(cfg.OpenWeather.APIKey, datasource.ClientOptions{
		BaseURL:    cfg.OpenWeather.BaseURL,
		Timeout:    cfg.API.Timeout,
		RetryCount: cfg.API.RetryAttempts,
		Logger:     zlog,
	})
	weather := datasource.NewRateLimitedProvider(owm, cfg.API.RateLimitRPS, cfg.API.RateLimitBurst)
	geocoder := cache.NewCachedGeocoder(weather, geocodeCacheTTL)

	var uv datasource.UVSource
	if cfg.UVEnabled() {
		uv = datasource.NewWeatherAPIProvider(cfg.WeatherAPI.APIKey, datasource.ClientOptions{
			BaseURL: cfg.WeatherAPI.BaseURL,
			Timeout: cfg.API.Timeout,
			Logger:  zlog,
		})
		zlog.Info("UV index enabled", zap.String("source", uv.Name()))
	}

	resolver := location.NewResolver(
		cache.NewCachedGeolocator(newGeolocator(cfg), zlog),
		geocoder,
		location.PositionOptions{
			HighAccuracy: true,
			Timeout:      cfg.Geolocation.Timeout,
			MaximumAge:   cfg.Geolocation.MaxAge,
		},
		zlog,
	)

	backend, closeBackend := newPreferenceBackend(cfg, zlog)
	defer closeBackend()

	controller := dashboard.NewController(dashboard.Options{
		Weather:      weather,
		UV:           uv,
		Resolver:     resolver,
		Preferences:  preferences.NewStore(backend, zlog),
		Renderer:     render.NewText(os.Stdout),
		Timezone:     cfg.Forecast.Timezone,
		ConfigErr:    credErr,
		FetchTimeout: 2 * cfg.API.Timeout,
		Logger:       zlog,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start the API server in a goroutine
	server := api.NewServer(controller, cfg.Server.Port, zlog)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	// Initial load. Only a missing or rejected key stops it; a failed ping for any
	// other reason still loads the device or fallback location.
	var pinger dashboard.Pinger
	if credErr == nil {
		pinger = owm
	}
	if err := controller.CheckCredential(ctx, pinger); initialLoadAllowed(err) {
		if *city != "" {
			controller.Handle(ctx, dashboard.QueryRefresh(*city))
		} else {
			controller.Start(ctx, cfg.DefaultLocation.Coordinate())
		}
	}

	refresher := collector.NewRefresher(controller, cfg.Refresh.Weather, cfg.Refresh.Clock, zlog)
	refresher.SetFetchTimeout(2 * cfg.API.Timeout)
	stopRefresher := refresher.Start(ctx)
	go logRefreshErrors(ctx, refresher.ErrorChannel(), zlog)

	if *interactive {
		go runConsole(ctx, os.Stdin, controller, cancel)
	}

	// Wait for shutdown signal
	<-ctx.Done()
	zlog.Info("shutting down")

	stopRefresher()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("server shutdown", zap.Error(err))
	}

	zlog.Info("shutdown complete")
}

// initialLoadAllowed reports whether the credential check left the dashboard
// able to fetch. A missing or rejected key cannot recover without a restart.
func initialLoadAllowed(err error) bool {
	return !errors.Is(err, models.ErrUnauthorized) && !errors.Is(err, models.ErrConfigInvalid)
}

// logRefreshErrors drains scheduled refresh failures until ctx is done
func logRefreshErrors(ctx context.Context, errs <-chan error, zlog *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			zlog.Warn("scheduled refresh failed", zap.Error(err))
		}
	}
}

func newGeolocator(cfg *config.Config) location.Geolocator {
	if cfg.Geolocation.Provider == "static" {
		return location.NewStaticGeolocator(cfg.DefaultLocation.Coordinate())
	}
	return location.NewIPGeolocator(cfg.Geolocation.URL)
}

// newPreferenceBackend opens the configured backend. An unreachable backend
// degrades to memory so the unit preference lasts for the session only.
func newPreferenceBackend(cfg *config.Config, zlog *zap.Logger) (preferences.Backend, func()) {
	noop := func() {}

	switch cfg.Preferences.Backend {
	case "memory":
		return preferences.NewMemoryBackend(), noop
	case "valkey":
		backend, err := preferences.NewValkeyBackend(cfg.Preferences.ValkeyAddr, "")
		if err != nil {
			zlog.Warn("valkey unavailable, preferences kept in memory", zap.Error(err))
			return preferences.NewMemoryBackend(), noop
		}
		return backend, backend.Close
	}

	path := cfg.Preferences.Path
	if path == "" {
		var err error
		if path, err = preferences.DefaultPath(); err != nil {
			zlog.Warn("no config directory, preferences kept in memory", zap.Error(err))
			return preferences.NewMemoryBackend(), noop
		}
	}
	return preferences.NewFileBackend(path), noop
}
