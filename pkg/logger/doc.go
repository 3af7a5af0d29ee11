// Package logger provides the shell's slog factories: JSON stdout output,
// per-component tagging, context-extracted attributes, and an optional
// Sentry fan-out that degrades gracefully when no DSN is configured.
package logger
