package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// MockProvider simulates latency and counts calls
type MockProvider struct {
	callCount int
	mutex     sync.Mutex
	latency   time.Duration
}

func NewMockProvider(latency time.Duration) *MockProvider {
	return &MockProvider{latency: latency}
}

func (m *MockProvider) call(ctx context.Context, what string, coord models.Coordinate) error {
	m.mutex.Lock()
	m.callCount++
	currentCount := m.callCount
	m.mutex.Unlock()

	fmt.Printf("%s - Processing request #%d: %s for %s\n", time.Now().Format("15:04:05.000"), currentCount, what, coord)

	// Simulate work/latency
	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockProvider) FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentWeather, error) {
	if err := m.call(ctx, "current", coord); err != nil {
		return models.CurrentWeather{}, err
	}
	return models.CurrentWeather{Name: coord.Name, Temperature: 22.5, Humidity: 60, Timestamp: time.Now()}, nil
}

func (m *MockProvider) FetchForecast(ctx context.Context, coord models.Coordinate) ([]models.ForecastEntry, error) {
	if err := m.call(ctx, "forecast", coord); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *MockProvider) Geocode(ctx context.Context, query string, limit int) ([]models.Coordinate, error) {
	if err := m.call(ctx, "geocode", models.Coordinate{Name: query}); err != nil {
		return nil, err
	}
	return []models.Coordinate{{Name: query}}, nil
}

func (m *MockProvider) Name() string {
	return "MockProvider"
}

func (m *MockProvider) GetCallCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.callCount
}

func main() {
	// Parse command-line flags
	requestsPerSecond := flag.Float64("rps", 1.0, "Rate limit in requests per second")
	burstSize := flag.Int("burst", 5, "Maximum burst size")
	totalRefreshes := flag.Int("refreshes", 5, "Total number of dashboard refreshes to simulate")
	concurrentRefreshes := flag.Int("concurrent", 3, "Number of concurrent refresh workers")
	flag.Parse()

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Create a mock provider with 200ms response time and wrap it with the rate limiter
	mockProvider := NewMockProvider(200 * time.Millisecond)
	limited := datasource.NewRateLimitedProvider(mockProvider, *requestsPerSecond, *burstSize)

	fmt.Printf("Testing %s with:\n", limited.Name())
	fmt.Printf("- Rate limit: %.2f requests/second\n", *requestsPerSecond)
	fmt.Printf("- Burst size: %d\n", *burstSize)
	fmt.Printf("- Refreshes: %d (search + current + forecast each)\n", *totalRefreshes)
	fmt.Printf("- Concurrent workers: %d\n", *concurrentRefreshes)
	fmt.Println("Starting test...")

	startTime := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < *concurrentRefreshes; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			refreshesPerWorker := *totalRefreshes / *concurrentRefreshes
			if workerID < *totalRefreshes%*concurrentRefreshes {
				refreshesPerWorker++
			}

			for j := 0; j < refreshesPerWorker; j++ {
				before := time.Now()
				err := refresh(ctx, limited, fmt.Sprintf("City-%d-%d", workerID, j))
				elapsed := time.Since(before)

				if err != nil {
					log.Printf("Worker %d - Refresh %d failed: %v", workerID, j, err)
				} else {
					log.Printf("Worker %d - Refresh %d completed in %v", workerID, j, elapsed)
				}
			}
		}(i)
	}

	wg.Wait()

	totalTime := time.Since(startTime)
	calls := mockProvider.GetCallCount()
	actualRPS := float64(calls) / totalTime.Seconds()

	fmt.Println("\nTest completed!")
	fmt.Printf("Total time: %.2f seconds\n", totalTime.Seconds())
	fmt.Printf("Actual requests per second: %.2f\n", actualRPS)
	fmt.Printf("Total requests processed: %d\n", calls)

	expectedMinTime := max(float64(calls-*burstSize) / *requestsPerSecond, 0)
	fmt.Printf("Expected minimum time (theoretical): %.2f seconds\n", expectedMinTime)

	if actualRPS > *requestsPerSecond*1.5 && calls > *burstSize {
		fmt.Println("\n⚠️ WARNING: Actual RPS significantly higher than configured rate limit!")
		fmt.Println("Rate limiting may not be working as expected.")
	} else {
		fmt.Println("\n✅ Rate limiting appears to be working correctly.")
	}
}

// refresh mirrors a dashboard search: geocode, then current and forecast concurrently
func refresh(ctx context.Context, p *datasource.RateLimitedProvider, city string) error {
	matches, err := p.Geocode(ctx, city, 1)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := p.FetchCurrent(gctx, matches[0])
		return err
	})
	g.Go(func() error {
		_, err := p.FetchForecast(gctx, matches[0])
		return err
	})
	return g.Wait()
}
