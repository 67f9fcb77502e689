package datasource

import (
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"weather-dashboard/logger"
)

// ClientOptions configures the HTTP clients of the providers
type ClientOptions struct {
	BaseURL string
	Timeout time.Duration
	// RetryCount retries transport failures only; HTTP error responses are never retried
	RetryCount int
	Logger     *zap.Logger
}

func newRestyClient(opts ClientOptions, defaultBaseURL string) *resty.Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "weather-dashboard/1.0").
		SetTimeout(timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	log := logger.OrNop(opts.Logger)
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Debug("provider response",
			zap.String("method", resp.Request.Method),
			zap.String("path", resp.Request.RawRequest.URL.Path),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("duration", resp.Time()),
			zap.Int("bytes", len(resp.Body())),
		)
		return nil
	})

	return client
}
