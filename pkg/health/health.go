package health

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is a readiness check. The shell registers checks for the
// descriptor catalog and the backend dependency gate; hosts add their own.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named readiness checks.
type Checks map[string]CheckFunc

// Response aggregates the outcome of one readiness run.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the outcome of a single named check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures readiness runs.
type Option func(*config)

// WithTimeout caps a readiness run across all checks.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used to report failing checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks in parallel under a shared timeout.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return runChecks(ctx, checks, newConfig(opts...))
}

func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]Check, len(checks))
		failed  bool
	)

	for name, check := range checks {
		wg.Go(func() {
			result := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				result = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "readiness check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = result
			failed = failed || result.Status == StatusUnhealthy
			mu.Unlock()
		})
	}

	wg.Wait()

	status := StatusHealthy
	if failed {
		status = StatusUnhealthy
	}
	return &Response{Status: status, Checks: results}
}
