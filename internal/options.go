package internal

import (
	"log/slog"
	"maps"

	"github.com/dmitrymomot/appshell/pkg/connectivity"
	"github.com/dmitrymomot/appshell/pkg/gate"
	"github.com/dmitrymomot/appshell/pkg/health"
	"github.com/dmitrymomot/appshell/pkg/logger"
	"github.com/dmitrymomot/appshell/pkg/routing"
)

// Option configures the shell.
type Option func(*Shell)

// WithLogger creates a component-tagged JSON logger for the shell.
// Extractors pull request-scoped values from context into every log entry.
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(s *Shell) {
		s.logger = logger.New(component, extractors...)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRouteMatcher installs custom route matching semantics.
// Defaults to routing.ExactThenPrefix.
func WithRouteMatcher(m routing.Matcher) Option {
	return func(s *Shell) {
		s.matcher = m
	}
}

// WithConnectivity sets the initial connectivity mode. Defaults to online.
func WithConnectivity(mode connectivity.Mode) Option {
	return func(s *Shell) {
		s.mode.Store(int32(mode))
	}
}

// WithBackendVersions seeds the live backend version snapshot.
// Without a snapshot (and without a probe) the dependency gate is disabled.
func WithBackendVersions(versions map[string]string) Option {
	return func(s *Shell) {
		s.versions = maps.Clone(versions)
	}
}

// WithVersionProbe configures the HTTP endpoint serving the live backend
// version snapshot, used by RefreshBackendVersions.
func WithVersionProbe(url string, opts ...gate.ProberOption) Option {
	return func(s *Shell) {
		s.prober = gate.NewProber(url, opts...)
	}
}

// WithReadinessCheck adds a named readiness check to the ops surface,
// alongside the shell's built-in catalog and gate checks.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(s *Shell) {
		if name != "" && fn != nil {
			s.extraReady[name] = fn
		}
	}
}
