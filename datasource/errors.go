package datasource

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"weather-dashboard/models"
)

// UpstreamError is a non-2xx provider response other than 401 and 429.
// It matches models.ErrUpstream with errors.Is.
type UpstreamError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Status)
}

// Is lets errors.Is(err, models.ErrUpstream) match
func (e *UpstreamError) Is(target error) bool {
	return target == models.ErrUpstream
}

// classify maps a resty result onto the error taxonomy. A nil return means a 2xx response.
func classify(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrNetwork, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	message := providerMessage(resp.Body())
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", models.ErrUnauthorized, orDefault(message, "invalid or inactive API key"))
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", models.ErrRateLimited, orDefault(message, "API call limit exceeded"))
	}
	return &UpstreamError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Message:    message,
	}
}

// providerMessage extracts {"cod":..., "message": "..."} style error bodies
func providerMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(payload.Error.Message)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func malformed(what string, err error) error {
	return fmt.Errorf("%w: failed to parse %s: %v", models.ErrDataMalformed, what, err)
}
