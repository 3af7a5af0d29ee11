package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// Config is the opaque per-module configuration handle a startup hook
// returns (registered config schema, feature names, module-scoped options).
type Config = any

// StartupFunc is a module's one-time startup hook. It runs at most once per
// module, no matter how many of the module's entries are resolved.
type StartupFunc func(ctx context.Context) (Config, error)

// Status is a point-in-time copy of one module's runtime state.
type Status struct {
	Module  string
	Started bool

	// Config is the handle returned by the startup hook, nil until started.
	Config Config

	// Err is the permanent startup failure, nil unless the hook failed.
	Err error

	// Degraded is set when the backend dependency gate found unsatisfied
	// constraints but the module is not required.
	Degraded bool

	// Blocked is set when unsatisfied constraints block a required module.
	Blocked bool

	// FailingDependencies lists the constraints the gate reported.
	FailingDependencies []string
}

// Coordinator owns the per-module runtime state table. States are created
// lazily on first use and live until the shell is torn down.
type Coordinator struct {
	mu     sync.Mutex
	states map[string]*moduleState
	logger *slog.Logger
}

type moduleState struct {
	// startMu serializes the startup hook per module. Different modules
	// start in parallel; callers racing on the same module queue behind it.
	startMu sync.Mutex

	// mu guards the fields below. It is never held across the startup
	// hook, so Status and Blocked stay responsive during a slow startup.
	mu      sync.Mutex
	started bool
	config  Config
	err     error

	degraded bool
	blocked  bool
	failing  []string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator's logger. Defaults to discard.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		states: make(map[string]*moduleState),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureStarted runs the module's startup hook if it has not run yet and
// returns the module's config handle.
//
// The hook executes at most once per module. A failure is permanent: it is
// cached on the module's state, wrapped in ErrStartup, and returned to every
// subsequent caller for the remaining process lifetime. A nil start means
// the module has no startup hook and is marked started immediately.
func (c *Coordinator) EnsureStarted(ctx context.Context, module string, start StartupFunc) (Config, error) {
	st := c.state(module)

	st.startMu.Lock()
	defer st.startMu.Unlock()

	st.mu.Lock()
	if st.err != nil {
		err := st.err
		st.mu.Unlock()
		return nil, err
	}
	if st.started {
		cfg := st.config
		st.mu.Unlock()
		return cfg, nil
	}
	st.mu.Unlock()

	var cfg Config
	if start != nil {
		var err error
		cfg, err = runStartup(ctx, start)
		if err != nil {
			wrapped := errors.Join(ErrStartup, fmt.Errorf("module %q: %w", module, err))
			st.mu.Lock()
			st.err = wrapped
			st.mu.Unlock()
			c.logger.Error("module startup failed",
				slog.String("module", module),
				slog.String("error", err.Error()),
			)
			return nil, wrapped
		}
	}

	st.mu.Lock()
	st.config = cfg
	st.started = true
	st.mu.Unlock()

	c.logger.Debug("module started", slog.String("module", module))
	return cfg, nil
}

// runStartup invokes the hook, converting a panic into an error so a
// misbehaving module flags itself failed instead of taking down the shell.
func runStartup(ctx context.Context, start StartupFunc) (cfg Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("startup panic: %v", r)
		}
	}()
	return start(ctx)
}

// SetDependencyStatus records the backend dependency gate's verdict on the
// module's state so every later resolution sees it.
func (c *Coordinator) SetDependencyStatus(module string, blocked bool, failing []string) {
	st := c.state(module)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.blocked = blocked
	st.degraded = !blocked && len(failing) > 0
	st.failing = slices.Clone(failing)
}

// Blocked reports whether activation of the module is blocked by the gate.
func (c *Coordinator) Blocked(module string) bool {
	st := c.state(module)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.blocked
}

// Status returns a copy of the module's runtime state.
func (c *Coordinator) Status(module string) Status {
	st := c.state(module)
	st.mu.Lock()
	defer st.mu.Unlock()

	return Status{
		Module:              module,
		Started:             st.started,
		Config:              st.config,
		Err:                 st.err,
		Degraded:            st.degraded,
		Blocked:             st.blocked,
		FailingDependencies: slices.Clone(st.failing),
	}
}

// state returns the module's runtime state, creating it on first use.
func (c *Coordinator) state(module string) *moduleState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[module]
	if !ok {
		st = &moduleState{}
		c.states[module] = st
	}
	return st
}
