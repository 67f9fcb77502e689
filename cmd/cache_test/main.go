package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"weather-dashboard/cache"
	"weather-dashboard/config"
	"weather-dashboard/datasource"
)

func main() {
	fmt.Println("=== Running Geocode Cache Test ===")
	fmt.Println("This will demonstrate how repeated city searches reuse cached results")
	fmt.Println("The test will take about 20 seconds to complete...")

	// Reads .env, config.yaml and WEATHER_* variables
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.CheckCredential(); err != nil {
		log.Fatal(err)
	}

	// Set a short cache duration for demonstration purposes
	cacheDuration := 15 * time.Second

	provider := datasource.NewOpenWeatherMapProvider(cfg.OpenWeather.APIKey, datasource.ClientOptions{
		BaseURL: cfg.OpenWeather.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	geocoder := cache.NewCachedGeocoder(provider, cacheDuration)
	fmt.Println("Added OpenWeatherMap geocoder with 15-second cache")

	ctx := context.Background()
	queries := []string{"London", "new york", "  New York "}

	fmt.Println("\n*** First Request - London is a miss, New York is a miss then a hit ***")
	makeRequests(ctx, geocoder, queries)

	fmt.Println("\n*** Second Request - Should use cached data ***")
	makeRequests(ctx, geocoder, queries)

	fmt.Println("\nWaiting for cache to expire (15 seconds)...")
	time.Sleep(cacheDuration + 1*time.Second)

	fmt.Println("\n*** After Expiry - Should be cache misses again ***")
	makeRequests(ctx, geocoder, queries)

	hits, misses := geocoder.CacheStats()
	fmt.Printf("\nStats for %s: %d cache hits, %d cache misses\n", provider.Name(), hits, misses)

	fmt.Println("\n=== Cache Test Complete ===")
}

func makeRequests(ctx context.Context, geocoder datasource.Geocoder, queries []string) {
	for _, query := range queries {
		matches, err := geocoder.Geocode(ctx, query, 1)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if len(matches) == 0 {
			fmt.Printf("No match for %q\n", query)
			continue
		}
		fmt.Printf("Resolved %q to %s\n", query, matches[0])
	}
}
