package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig configures the optional Sentry log destination.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is the lowest level forwarded to Sentry as a log entry;
	// errors always create Sentry issues.
	MinLevel slog.Level
}

// NewWithSentry creates a component logger that writes JSON to stdout and
// forwards warnings and errors to Sentry. An empty DSN, or a failed Sentry
// init, degrades to stdout-only logging so local development needs no setup.
func NewWithSentry(component string, cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})

	handler := slog.Handler(stdout)
	if cfg.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.DSN,
			Environment: cfg.Environment,
			EnableLogs:  true,
		}); err != nil {
			slog.New(stdout).Error("sentry init failed", slog.String("error", err.Error()))
		} else {
			logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
			if cfg.MinLevel == slog.LevelError {
				logLevel = []slog.Level{slog.LevelError}
			}
			sentryHandler := sentryslog.Option{
				EventLevel: []slog.Level{slog.LevelError},
				LogLevel:   logLevel,
			}.NewSentryHandler(context.Background())
			handler = &teeHandler{handlers: []slog.Handler{stdout, sentryHandler}}
		}
	}

	log := slog.New(decorate(handler, extractors...))
	if component != "" {
		log = log.With(slog.String("component", component))
	}
	return log
}
