package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/appshell/pkg/connectivity"
	"github.com/dmitrymomot/appshell/pkg/gate"
	"github.com/dmitrymomot/appshell/pkg/health"
	"github.com/dmitrymomot/appshell/pkg/lifecycle"
	"github.com/dmitrymomot/appshell/pkg/loader"
	"github.com/dmitrymomot/appshell/pkg/logger"
	"github.com/dmitrymomot/appshell/pkg/metrics"
	"github.com/dmitrymomot/appshell/pkg/registry"
	"github.com/dmitrymomot/appshell/pkg/routing"
)

// Shell is the app shell host: it ingests module descriptors at registration
// time (cheap, code-free), resolves routes and slots through the index, and
// activates module code on demand only.
//
// Resolution pipeline per navigation/render event:
// index -> connectivity filter -> dependency gate -> lifecycle -> loader.
type Shell struct {
	registry    *registry.Registry
	index       *routing.Index
	loader      *loader.Loader
	coordinator *lifecycle.Coordinator
	metrics     *metrics.Metrics
	logger      *slog.Logger

	matcher routing.Matcher
	mode    atomic.Int32

	mu       sync.RWMutex
	modules  map[string]*Module
	versions map[string]string // live backend snapshot; nil disables gating

	prober     *gate.Prober
	extraReady health.Checks
}

// New creates a shell with the given options.
func New(opts ...Option) *Shell {
	s := &Shell{
		logger:     logger.NewNope(),
		modules:    make(map[string]*Module),
		extraReady: make(health.Checks),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.metrics = metrics.New()
	s.loader = loader.New(loader.WithLogger(s.logger))
	s.coordinator = lifecycle.New(lifecycle.WithLogger(s.logger))
	s.index = routing.NewIndex(s.matcher)
	s.registry = registry.New(func(snap registry.Snapshot) {
		s.index.Rebuild(snap)
		s.metrics.SetModules(len(snap))
	})
	return s
}

// Register validates and adds a module to the catalog, rebuilds the index
// and gates the module's backend dependencies against the current version
// snapshot. No module code runs.
func (s *Shell) Register(m *Module) (registry.Handle, error) {
	if m == nil || m.Descriptor == nil {
		return registry.Handle{}, ErrNilModule
	}

	// Publish the dynamic surface before the descriptor becomes resolvable,
	// so a resolution racing the registration can always activate. The name
	// is claimed under the lock: a duplicate must never overwrite (and its
	// rollback never remove) the surface of the earlier registration.
	s.mu.Lock()
	if _, taken := s.modules[m.Descriptor.Name]; taken {
		s.mu.Unlock()
		return registry.Handle{}, fmt.Errorf("%w: %q", registry.ErrDuplicateModule, m.Descriptor.Name)
	}
	s.modules[m.Descriptor.Name] = m
	s.mu.Unlock()

	handle, err := s.registry.Register(m.Descriptor)
	if err != nil {
		s.mu.Lock()
		delete(s.modules, m.Descriptor.Name)
		s.mu.Unlock()
		return registry.Handle{}, err
	}

	s.gateModule(m.Descriptor.Name)

	s.logger.Info("module registered",
		slog.String("module", m.Descriptor.Name),
		slog.Int("pages", len(m.Descriptor.Pages)),
		slog.Int("extensions", len(m.Descriptor.Extensions)),
	)
	return handle, nil
}

// Unregister removes a module from the catalog and rebuilds the index.
// The module's runtime state is kept: startup-once and cached failures are
// process-lifetime guarantees.
func (s *Shell) Unregister(module string) error {
	if err := s.registry.Unregister(module); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.modules, module)
	s.mu.Unlock()

	s.logger.Info("module unregistered", slog.String("module", module))
	return nil
}

// ResolveRoute returns the page entries matching the path, pruned by the
// current connectivity mode. Entries of degraded or blocked modules are
// kept: the renderer decides how to present them, and Activate surfaces
// the typed failure.
func (s *Shell) ResolveRoute(path string) []routing.PageEntry {
	s.metrics.ObserveResolution("route")
	return connectivity.Filter(s.index.ResolveRoute(path), s.Connectivity())
}

// ResolveSlot returns the slot's extension entries in stable order, pruned
// by the current connectivity mode.
func (s *Shell) ResolveSlot(slot string) []routing.ExtensionEntry {
	s.metrics.ObserveResolution("slot")
	return connectivity.Filter(s.index.ResolveSlot(slot), s.Connectivity())
}

// Activate turns a resolved entry into a component factory, fetching the
// module's code on first use and running the module's startup hook exactly
// once. Failures are scoped to the entry's module and typed: gate.ErrDependency,
// lifecycle.ErrStartup, loader.ErrLoad.
func (s *Shell) Activate(ctx context.Context, e routing.Entry) (loader.Factory, error) {
	started := time.Now()

	factory, err := s.activate(ctx, e)

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, gate.ErrDependency):
		outcome = "blocked"
	default:
		outcome = "error"
	}
	s.metrics.ObserveActivation(outcome, time.Since(started))

	if err != nil {
		s.logger.Warn("activation failed",
			slog.String("module", e.Owner()),
			slog.String("component", e.LoaderKey()),
			slog.String("error", err.Error()),
		)
	}
	return factory, err
}

func (s *Shell) activate(ctx context.Context, e routing.Entry) (loader.Factory, error) {
	s.mu.RLock()
	mod, ok := s.modules[e.Owner()]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, e.Owner())
	}

	if s.coordinator.Blocked(e.Owner()) {
		status := s.coordinator.Status(e.Owner())
		return nil, fmt.Errorf("%w: module %q: %s",
			gate.ErrDependency, e.Owner(), strings.Join(status.FailingDependencies, "; "))
	}

	if _, err := s.coordinator.EnsureStarted(ctx, e.Owner(), s.instrumented(mod.Startup)); err != nil {
		return nil, err
	}

	fetch, ok := mod.Loaders[e.LoaderKey()]
	if !ok {
		return nil, fmt.Errorf("%w: %q in module %q", ErrUnknownComponent, e.LoaderKey(), e.Owner())
	}

	return s.loader.Activate(ctx, loader.Key{Module: e.Owner(), Component: e.LoaderKey()}, fetch)
}

// instrumented counts startup failures. EnsureStarted memoizes outcomes, so
// the wrapper runs at most once per module.
func (s *Shell) instrumented(start lifecycle.StartupFunc) lifecycle.StartupFunc {
	if start == nil {
		return nil
	}
	return func(ctx context.Context) (lifecycle.Config, error) {
		cfg, err := start(ctx)
		if err != nil {
			s.metrics.ObserveStartupFailure()
		}
		return cfg, err
	}
}

// Retry clears a cached activation failure for the entry so the next
// Activate fetches again.
func (s *Shell) Retry(e routing.Entry) bool {
	return s.loader.Retry(loader.Key{Module: e.Owner(), Component: e.LoaderKey()})
}

// Warmup resolves the given routes and activates every surviving entry in
// parallel. It is an opt-in for hosts that want a hot first paint; all
// other routes stay strictly on-demand.
func (s *Shell) Warmup(ctx context.Context, paths ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		for _, entry := range s.ResolveRoute(path) {
			g.Go(func() error {
				_, err := s.Activate(ctx, entry)
				return err
			})
		}
	}
	return g.Wait()
}

// SetConnectivity switches the shell between online and offline mode.
func (s *Shell) SetConnectivity(mode connectivity.Mode) {
	s.mode.Store(int32(mode))
	s.logger.Info("connectivity changed", slog.String("mode", mode.String()))
}

// Connectivity returns the current connectivity mode.
func (s *Shell) Connectivity() connectivity.Mode {
	return connectivity.Mode(s.mode.Load())
}

// SetBackendVersions installs a live backend version snapshot and re-gates
// every registered module against it. The snapshot is copied; later caller
// mutations have no effect.
func (s *Shell) SetBackendVersions(versions map[string]string) {
	s.mu.Lock()
	s.versions = maps.Clone(versions)
	s.mu.Unlock()

	for _, d := range s.registry.Snapshot() {
		s.gateModule(d.Name)
	}
}

// RefreshBackendVersions probes the configured version endpoint and re-gates
// all modules with the fresh snapshot.
func (s *Shell) RefreshBackendVersions(ctx context.Context) error {
	if s.prober == nil {
		return ErrNoProber
	}
	versions, err := s.prober.Versions(ctx)
	if err != nil {
		return err
	}
	s.SetBackendVersions(versions)
	return nil
}

// Status returns the module's runtime state: started, degraded, blocked,
// cached startup failure.
func (s *Shell) Status(module string) lifecycle.Status {
	return s.coordinator.Status(module)
}

// Translations returns the module's opaque deferred translation loader for
// the host's localization layer.
func (s *Shell) Translations(module string) (TranslationsFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mod, ok := s.modules[module]
	if !ok || mod.Translations == nil {
		return nil, false
	}
	return mod.Translations, true
}

// gateModule re-evaluates one module's backend constraints against the
// current snapshot. A nil snapshot means gating is disabled.
func (s *Shell) gateModule(module string) {
	s.mu.RLock()
	versions := s.versions
	mod, ok := s.modules[module]
	s.mu.RUnlock()
	if !ok {
		return
	}

	if versions == nil {
		s.coordinator.SetDependencyStatus(module, false, nil)
		return
	}

	res := gate.Check(mod.Descriptor.BackendDependencies, versions)
	blocked := mod.Descriptor.Required && !res.Satisfied()
	s.coordinator.SetDependencyStatus(module, blocked, res.Reasons())

	if !res.Satisfied() {
		s.logger.Warn("backend dependencies unsatisfied",
			slog.String("module", module),
			slog.Bool("blocked", blocked),
			slog.String("failing", strings.Join(res.Reasons(), "; ")),
		)
	}
}
