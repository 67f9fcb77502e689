package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"weather-dashboard/models"
)

var (
	// Upstream API metrics
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weather_dashboard",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total weather provider requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "weather_dashboard",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Weather provider request latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	// Dashboard metrics
	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weather_dashboard",
		Subsystem: "dashboard",
		Name:      "refreshes_total",
		Help:      "Total dashboard refreshes by trigger and outcome",
	}, []string{"trigger", "outcome"})

	StaleRefreshesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "weather_dashboard",
		Subsystem: "dashboard",
		Name:      "stale_refreshes_dropped_total",
		Help:      "Refresh results discarded because a newer refresh was issued",
	})

	PreferenceWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "weather_dashboard",
		Subsystem: "preferences",
		Name:      "write_failures_total",
		Help:      "Failed attempts to persist the temperature unit",
	})
)

// ObserveUpstream records one provider request
func ObserveUpstream(endpoint string, started time.Time, err error) {
	upstreamRequestsTotal.WithLabelValues(endpoint, Outcome(err)).Inc()
	upstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// ObserveRefresh records one dashboard refresh
func ObserveRefresh(trigger string, err error) {
	refreshesTotal.WithLabelValues(trigger, Outcome(err)).Inc()
}

// Outcome maps an error onto a low-cardinality label value
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrConfigInvalid):
		return "config_invalid"
	case errors.Is(err, models.ErrLocationUnavailable):
		return "location_unavailable"
	case errors.Is(err, models.ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, models.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, models.ErrUpstream):
		return "upstream_error"
	case errors.Is(err, models.ErrNetwork):
		return "network_error"
	case errors.Is(err, models.ErrDataMalformed):
		return "data_malformed"
	}
	return "error"
}
