package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const DefaultTimeout = 10 * time.Second

// LoggingRoundTripper logs every outbound request and the response status.
// Bodies are only logged at debug level.
type LoggingRoundTripper struct {
	Proxied http.RoundTripper
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	t0 := time.Now()

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.ErrorContext(ctx, "outbound request failed",
			"error", err.Error(),
			slog.Group("http", "method", req.Method, "url", req.URL.String()))
		return res, err
	}

	attrs := []any{
		slog.Group("http",
			"method", req.Method,
			"url", req.URL.String(),
			"status", res.StatusCode,
			"duration_ms", time.Since(t0).Milliseconds(),
		),
	}

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		b := bytes.NewBuffer(make([]byte, 0))
		reader := io.TeeReader(res.Body, b)

		body, _ := io.ReadAll(reader)
		res.Body.Close()
		res.Body = io.NopCloser(b)

		slog.DebugContext(ctx, "outbound response", append(attrs, "body", string(body))...)
		return res, nil
	}

	slog.InfoContext(ctx, "outbound request", attrs...)
	return res, nil
}

// RateLimitedRoundTripper waits for the limiter before proxying the request.
type RateLimitedRoundTripper struct {
	Proxied http.RoundTripper
	Limiter *rate.Limiter
}

func (rt RateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return rt.Proxied.RoundTrip(req)
}

type clientOptions struct {
	timeout   time.Duration
	limiter   *rate.Limiter
	transport http.RoundTripper
}

type ClientOption func(*clientOptions)

func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithRateLimit makes every request wait for l. Clients built with the same
// limiter share its budget.
func WithRateLimit(l *rate.Limiter) ClientOption {
	return func(o *clientOptions) {
		o.limiter = l
	}
}

func WithTransport(t http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.transport = t
	}
}

func NewLoggingClient(opts ...ClientOption) *http.Client {
	options := clientOptions{timeout: DefaultTimeout, transport: http.DefaultTransport}
	for _, f := range opts {
		f(&options)
	}

	var transport http.RoundTripper = LoggingRoundTripper{Proxied: options.transport}
	if options.limiter != nil {
		transport = RateLimitedRoundTripper{Proxied: transport, Limiter: options.limiter}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   options.timeout,
	}
}
