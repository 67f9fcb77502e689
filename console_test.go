package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"weather-dashboard/dashboard"
	"weather-dashboard/models"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line  string
		kind  dashboard.IntentKind
		query string
	}{
		{"search New York", dashboard.RefreshByQuery, "New York"},
		{"  s Paris ", dashboard.RefreshByQuery, "Paris"},
		{"search", dashboard.RefreshByQuery, ""},
		{"locate", dashboard.RefreshByDevice, ""},
		{"TOGGLE", dashboard.ToggleUnit, ""},
		{"d", dashboard.DismissError, ""},
		{"refresh", dashboard.RefreshCurrent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			in, err := parseCommand(tt.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.Kind != tt.kind || in.Query != tt.query {
				t.Errorf("got %+v, want kind %v query %q", in, tt.kind, tt.query)
			}
		})
	}

	if _, err := parseCommand("weather"); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestInitialLoadAllowed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"key accepted", nil, true},
		{"key rejected", fmt.Errorf("ping: %w", models.ErrUnauthorized), false},
		{"key missing", fmt.Errorf("%w: key required", models.ErrConfigInvalid), false},
		{"server error on ping", models.ErrUpstream, true},
		{"network blip on ping", models.ErrNetwork, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := initialLoadAllowed(tt.err); got != tt.want {
				t.Errorf("initialLoadAllowed(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestLogRefreshErrors_DrainsUntilCancelled(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	errs := make(chan error, 2)
	errs <- models.ErrNetwork
	errs <- models.ErrUpstream

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		logRefreshErrors(ctx, errs, zap.New(core))
		close(done)
	}()

	deadline := time.After(time.Second)
	for logs.Len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected 2 logged errors, got %d", logs.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
