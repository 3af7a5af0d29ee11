package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Factory is the opaque component factory a loader resolves to.
// The rendering layer knows what to do with it; this package does not.
type Factory = any

// LoadFunc performs a module's deferred code fetch for one loader key.
// It is invoked at most once per key for the lifetime of the Loader,
// on a context detached from any single caller.
type LoadFunc func(ctx context.Context) (Factory, error)

// Key identifies a component loader: the owning module plus the loader
// key the module exported it under.
type Key struct {
	Module    string
	Component string
}

func (k Key) String() string { return k.Module + "/" + k.Component }

// State is the lifecycle state of one component loader.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// result is a terminal, memoized outcome of a fetch.
type result struct {
	factory Factory
	err     error
}

// Loader memoizes component activation per key.
//
// The first Activate call for a key transitions it unloaded -> loading and
// runs the fetch; concurrent callers share the single in-flight fetch via
// singleflight. Completion transitions to loaded or failed, both terminal:
// the resolved factory, or the error, is handed to every subsequent caller
// without re-fetching, until Retry explicitly clears a failure.
type Loader struct {
	mu      sync.Mutex
	results map[Key]result
	loading map[Key]struct{}
	sf      singleflight.Group
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger. Defaults to discard.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// New creates an empty loader.
func New(opts ...Option) *Loader {
	ld := &Loader{
		results: make(map[Key]result),
		loading: make(map[Key]struct{}),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Activate returns the memoized factory for key, running fetch on first use.
//
// Cancelling ctx stops the caller from waiting but never aborts the shared
// fetch: the in-flight fetch completes on a detached context and its outcome
// is cached, so rapid navigation does not waste or duplicate fetches.
func (ld *Loader) Activate(ctx context.Context, key Key, fetch LoadFunc) (Factory, error) {
	if fetch == nil {
		return nil, ErrNilFetch
	}

	ld.mu.Lock()
	if r, done := ld.results[key]; done {
		ld.mu.Unlock()
		return r.factory, r.err
	}
	ld.mu.Unlock()

	// Detach before handing off: the fetch outlives any single caller.
	fetchCtx := context.WithoutCancel(ctx)

	ch := ld.sf.DoChan(key.String(), func() (any, error) {
		ld.setLoading(key, true)
		defer ld.setLoading(key, false)

		ld.logger.Debug("fetching component", slog.String("key", key.String()))
		factory, err := fetch(fetchCtx)
		if err != nil {
			err = errors.Join(ErrLoad, err)
			ld.logger.Error("component fetch failed",
				slog.String("key", key.String()),
				slog.String("error", err.Error()),
			)
		}
		ld.store(key, result{factory: factory, err: err})
		return factory, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

// State reports the current lifecycle state of a key.
func (ld *Loader) State(key Key) State {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	if r, done := ld.results[key]; done {
		if r.err != nil {
			return StateFailed
		}
		return StateLoaded
	}
	if _, inflight := ld.loading[key]; inflight {
		return StateLoading
	}
	return StateUnloaded
}

// Retry clears a cached failure so the next Activate fetches again.
// It reports whether a failure was cleared; loaded and in-flight keys are
// left untouched.
func (ld *Loader) Retry(key Key) bool {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	r, done := ld.results[key]
	if !done || r.err == nil {
		return false
	}
	delete(ld.results, key)
	return true
}

func (ld *Loader) store(key Key, r result) {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	// First terminal outcome wins; a Retry racing a completion must not
	// let a stale result overwrite a fresh one.
	if _, done := ld.results[key]; !done {
		ld.results[key] = r
	}
}

func (ld *Loader) setLoading(key Key, on bool) {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	if on {
		ld.loading[key] = struct{}{}
	} else {
		delete(ld.loading, key)
	}
}
