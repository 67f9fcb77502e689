package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"weather-dashboard/dashboard"
	"weather-dashboard/logger"
	"weather-dashboard/models"
)

// Dashboard is the controller surface the HTTP API drives
type Dashboard interface {
	Handle(ctx context.Context, in dashboard.Intent) error
	Snapshot() dashboard.Snapshot
}

// Server represents the API server
type Server struct {
	dashboard Dashboard
	server    *http.Server
	log       *zap.Logger
}

// NewServer creates a new API server
func NewServer(d Dashboard, port int, log *zap.Logger) *Server {
	mux := http.NewServeMux()

	server := &Server{
		dashboard: d,
		log:       logger.OrNop(log),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Dashboard state and intents
	mux.HandleFunc("/api/dashboard", server.handleGetDashboard)
	mux.HandleFunc("/api/location/device", server.handleIntent(func(*http.Request) dashboard.Intent {
		return dashboard.DeviceRefresh()
	}))
	mux.HandleFunc("/api/location/search", server.handleIntent(func(r *http.Request) dashboard.Intent {
		return dashboard.QueryRefresh(r.URL.Query().Get("q"))
	}))
	mux.HandleFunc("/api/unit/toggle", server.handleIntent(func(*http.Request) dashboard.Intent {
		return dashboard.Intent{Kind: dashboard.ToggleUnit}
	}))
	mux.HandleFunc("/api/error/dismiss", server.handleIntent(func(*http.Request) dashboard.Intent {
		return dashboard.Intent{Kind: dashboard.DismissError}
	}))

	// Health check and metrics
	mux.HandleFunc("/api/health", server.handleHealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	return server
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins the API server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.log.Info("starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleGetDashboard returns the current dashboard snapshot
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
}

// handleIntent runs the intent built from the request and answers with the resulting snapshot
func (s *Server) handleIntent(build func(r *http.Request) dashboard.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		in := build(r)
		// The refresh outlives a disconnected client so the dashboard still
		// settles on its result
		err := s.dashboard.Handle(context.WithoutCancel(r.Context()), in)
		if err != nil {
			s.log.Debug("intent failed", zap.Stringer("intent", in.Kind), zap.Error(err))
			writeJSON(w, statusFor(err), map[string]interface{}{
				"error":     dashboard.UserMessage(err),
				"dashboard": s.dashboard.Snapshot(),
			})
			return
		}
		writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
	}
}

// statusFor maps an intent failure onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, models.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrConfigInvalid), errors.Is(err, models.ErrLocationUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrNetwork):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
