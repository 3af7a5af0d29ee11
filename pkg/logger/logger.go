package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextExtractor pulls one slog attribute out of a context.
// Use extractors to stamp request-scoped values (navigation ID, user ID)
// onto every log line without threading them through call sites.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// New creates a JSON stdout logger tagged with a component name.
// Extractors run per log call so they always see fresh context values.
func New(component string, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(decorate(h, extractors...))
	if component != "" {
		log = log.With(slog.String("component", component))
	}
	return log
}

// NewNope creates a logger that discards everything. It is the default
// wherever a logger was not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// extractHandler injects context-extracted attributes into each record
// before delegating to the wrapped handler.
type extractHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// decorate wraps a handler with context extractors, dropping nil ones so a
// misconfigured option cannot panic at log time.
func decorate(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	if len(clean) == 0 {
		return next
	}
	return &extractHandler{next: next, extractors: clean}
}

func (h *extractHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *extractHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *extractHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &extractHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *extractHandler) WithGroup(name string) slog.Handler {
	return &extractHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}

// teeHandler fans records out to several handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, rec.Level) {
			if err := hh.Handle(ctx, rec.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
