// Package collector schedules the dashboard's periodic work.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/dashboard"
	"weather-dashboard/logger"
)

// Target is what the refresher drives
type Target interface {
	Handle(ctx context.Context, in dashboard.Intent) error
	Redraw()
}

// Refresher re-fetches the displayed location on one interval and redraws
// the clock header on another. A zero interval disables that loop.
type Refresher struct {
	target          Target
	weatherInterval time.Duration
	clockInterval   time.Duration
	fetchTimeout    time.Duration
	errorChan       chan error
	log             *zap.Logger
}

// NewRefresher creates a refresher for target
func NewRefresher(target Target, weatherInterval, clockInterval time.Duration, log *zap.Logger) *Refresher {
	return &Refresher{
		target:          target,
		weatherInterval: weatherInterval,
		clockInterval:   clockInterval,
		fetchTimeout:    30 * time.Second, // Default timeout
		errorChan:       make(chan error, 16),
		log:             logger.OrNop(log),
	}
}

// SetFetchTimeout changes the timeout for one scheduled refresh
func (r *Refresher) SetFetchTimeout(timeout time.Duration) {
	r.fetchTimeout = timeout
}

// ErrorChannel returns the channel that emits scheduled refresh failures.
// Errors are dropped when nobody drains it.
func (r *Refresher) ErrorChannel() <-chan error {
	return r.errorChan
}

// Start begins the scheduled loops.
// The returned function stops them and waits for them to exit.
func (r *Refresher) Start(ctx context.Context) func() {
	runCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	if r.weatherInterval > 0 {
		wg.Add(1)
		go r.loop(runCtx, &wg, r.weatherInterval, r.refreshOnce)
	}
	if r.clockInterval > 0 {
		wg.Add(1)
		go r.loop(runCtx, &wg, r.clockInterval, func(context.Context) { r.target.Redraw() })
	}

	return func() {
		cancel()
		wg.Wait()
	}
}

func (r *Refresher) loop(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, tick func(context.Context)) {
	defer wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// refreshOnce performs a single scheduled refresh
func (r *Refresher) refreshOnce(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	err := r.target.Handle(fetchCtx, dashboard.Intent{Kind: dashboard.RefreshCurrent})
	if err == nil || errors.Is(err, dashboard.ErrSuperseded) {
		return
	}

	r.log.Warn("scheduled refresh failed", zap.Error(err))
	select {
	case r.errorChan <- fmt.Errorf("scheduled refresh: %w", err):
	default:
	}
}
