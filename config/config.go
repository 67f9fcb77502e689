package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"weather-dashboard/models"
)

// PlaceholderAPIKey is the value shipped in the config template
const PlaceholderAPIKey = "YOUR_OPENWEATHER_API_KEY"

// minAPIKeyLength rejects keys that are obviously truncated
const minAPIKeyLength = 20

// Config holds all application configuration.
type Config struct {
	OpenWeather     ProviderConfig        `mapstructure:"openweather"`
	WeatherAPI      ProviderConfig        `mapstructure:"weatherapi"`
	DefaultLocation DefaultLocationConfig `mapstructure:"default_location"`
	Refresh         RefreshConfig         `mapstructure:"refresh"`
	API             APIConfig             `mapstructure:"api"`
	Geolocation     GeolocationConfig     `mapstructure:"geolocation"`
	Preferences     PreferencesConfig     `mapstructure:"preferences"`
	Forecast        ForecastConfig        `mapstructure:"forecast"`
	Server          ServerConfig          `mapstructure:"server"`
	Log             LogConfig             `mapstructure:"log"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type DefaultLocationConfig struct {
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
	Name string  `mapstructure:"name"`
}

// Coordinate returns the default location, or nil when none is configured
func (d DefaultLocationConfig) Coordinate() *models.Coordinate {
	if d.Lat == 0 && d.Lon == 0 {
		return nil
	}
	return &models.Coordinate{Lat: d.Lat, Lon: d.Lon, Name: d.Name}
}

type RefreshConfig struct {
	Weather time.Duration `mapstructure:"weather"`
	Clock   time.Duration `mapstructure:"clock"`
}

type APIConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

type GeolocationConfig struct {
	Provider string        `mapstructure:"provider"` // ip or static
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

type PreferencesConfig struct {
	Backend    string `mapstructure:"backend"` // file, valkey or memory
	Path       string `mapstructure:"path"`
	ValkeyAddr string `mapstructure:"valkey_addr"`
}

type ForecastConfig struct {
	// Timezone selects the calendar used to group forecast days:
	// "local" (execution environment) or "location" (the forecast coordinate)
	Timezone string `mapstructure:"timezone"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, an optional config file and environment variables.
func Load(configFile string) (*Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: WEATHER_OPENWEATHER_API_KEY → openweather.api_key
	v.SetEnvPrefix("WEATHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		millisecondsHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openweather.api_key", "")
	v.SetDefault("openweather.base_url", "https://api.openweathermap.org")
	v.SetDefault("weatherapi.api_key", "")
	v.SetDefault("weatherapi.base_url", "https://api.weatherapi.com")
	v.SetDefault("default_location.lat", 32.7767)
	v.SetDefault("default_location.lon", -96.7970)
	v.SetDefault("default_location.name", "Dallas, TX")
	v.SetDefault("refresh.weather", "5m")
	v.SetDefault("refresh.clock", "1m")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.retry_attempts", 0)
	v.SetDefault("api.rate_limit_rps", 1.0)
	v.SetDefault("api.rate_limit_burst", 5)
	v.SetDefault("geolocation.provider", "ip")
	v.SetDefault("geolocation.url", "http://ip-api.com/json/")
	v.SetDefault("geolocation.timeout", "10s")
	v.SetDefault("geolocation.max_age", "5m")
	v.SetDefault("preferences.backend", "file")
	v.SetDefault("preferences.path", "")
	v.SetDefault("preferences.valkey_addr", "localhost:6379")
	v.SetDefault("forecast.timezone", "local")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that structural configuration fields are present and sane.
// The API credential is checked separately by CheckCredential, since a bad
// key must not stop the process.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Refresh.Weather < 0 {
		errs = append(errs, "refresh.weather must not be negative")
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be positive")
	}
	if c.API.RetryAttempts < 0 {
		errs = append(errs, "api.retry_attempts must not be negative")
	}
	if c.API.RateLimitRPS <= 0 || c.API.RateLimitBurst <= 0 {
		errs = append(errs, "api.rate_limit_rps and api.rate_limit_burst must be positive")
	}
	if c.Geolocation.Timeout <= 0 {
		errs = append(errs, "geolocation.timeout must be positive")
	}
	switch c.Geolocation.Provider {
	case "ip", "static":
	default:
		errs = append(errs, fmt.Sprintf("geolocation.provider must be ip or static, got %q", c.Geolocation.Provider))
	}
	switch c.Preferences.Backend {
	case "file", "valkey", "memory":
	default:
		errs = append(errs, fmt.Sprintf("preferences.backend must be file, valkey or memory, got %q", c.Preferences.Backend))
	}
	if c.Preferences.Backend == "valkey" && c.Preferences.ValkeyAddr == "" {
		errs = append(errs, "preferences.valkey_addr is required for the valkey backend")
	}
	switch c.Forecast.Timezone {
	case "local", "location":
	default:
		errs = append(errs, fmt.Sprintf("forecast.timezone must be local or location, got %q", c.Forecast.Timezone))
	}
	if lat := c.DefaultLocation.Lat; lat < -90 || lat > 90 {
		errs = append(errs, fmt.Sprintf("default_location.lat out of range: %v", lat))
	}
	if lon := c.DefaultLocation.Lon; lon < -180 || lon > 180 {
		errs = append(errs, fmt.Sprintf("default_location.lon out of range: %v", lon))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// CheckCredential reports models.ErrConfigInvalid for a missing, placeholder or
// malformed OpenWeatherMap key. It never performs a network call.
func (c *Config) CheckCredential() error {
	key := strings.TrimSpace(c.OpenWeather.APIKey)
	switch {
	case key == "" || key == PlaceholderAPIKey:
		return fmt.Errorf("%w: an OpenWeatherMap API key is required (get one at https://openweathermap.org/api)", models.ErrConfigInvalid)
	case len(key) < minAPIKeyLength:
		return fmt.Errorf("%w: the OpenWeatherMap API key appears to be too short", models.ErrConfigInvalid)
	}
	return nil
}

// UVEnabled reports whether a WeatherAPI key for the UV index is configured
func (c *Config) UVEnabled() bool {
	key := strings.TrimSpace(c.WeatherAPI.APIKey)
	return key != "" && key != "YOUR_WEATHERAPI_KEY"
}
