package appshell

import (
	"log/slog"

	"github.com/dmitrymomot/appshell/internal"
	"github.com/dmitrymomot/appshell/pkg/connectivity"
	"github.com/dmitrymomot/appshell/pkg/descriptor"
	"github.com/dmitrymomot/appshell/pkg/gate"
	"github.com/dmitrymomot/appshell/pkg/health"
	"github.com/dmitrymomot/appshell/pkg/lifecycle"
	"github.com/dmitrymomot/appshell/pkg/loader"
	"github.com/dmitrymomot/appshell/pkg/logger"
	"github.com/dmitrymomot/appshell/pkg/registry"
	"github.com/dmitrymomot/appshell/pkg/routing"
)

// Type aliases - public API
type (
	// Shell is the app shell host: it ingests module descriptors, resolves
	// routes and slots, and activates module code on demand.
	Shell = internal.Shell

	// Module joins a static descriptor with the module's dynamic surface
	// (loader functions, startup hook, translations).
	Module = internal.Module

	// Option configures the shell.
	Option = internal.Option

	// Descriptor is a module's static metadata.
	Descriptor = descriptor.Descriptor

	// Page declares a routable view inside a descriptor.
	Page = descriptor.Page

	// Extension declares a slot occupant inside a descriptor.
	Extension = descriptor.Extension

	// PageEntry is a resolved routable view.
	PageEntry = routing.PageEntry

	// ExtensionEntry is a resolved slot occupant.
	ExtensionEntry = routing.ExtensionEntry

	// Entry is the common surface of resolved entries, accepted by Activate.
	Entry = routing.Entry

	// Matcher decides route matching semantics.
	Matcher = routing.Matcher

	// Factory is the opaque component factory handed to the rendering layer.
	Factory = loader.Factory

	// LoadFunc is a module's deferred code fetch for one loader key.
	LoadFunc = loader.LoadFunc

	// StartupFunc is a module's one-time startup hook.
	StartupFunc = lifecycle.StartupFunc

	// TranslationsFunc is a module's opaque deferred translation loader.
	TranslationsFunc = internal.TranslationsFunc

	// Handle is an opaque proof of module registration.
	Handle = registry.Handle

	// Mode is the shell's connectivity mode.
	Mode = connectivity.Mode

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// Connectivity modes.
const (
	Online  = connectivity.Online
	Offline = connectivity.Offline
)

// New creates a shell with the given options.
//
// Example:
//
//	shell := appshell.New(
//	    appshell.WithLogger("shell"),
//	    appshell.WithBackendVersions(versions),
//	)
//
//	handle, err := shell.Register(&appshell.Module{
//	    Descriptor: desc,
//	    Loaders:    map[string]appshell.LoadFunc{"root": loadRoot},
//	    Startup:    startup,
//	})
func New(opts ...Option) *Shell {
	return internal.New(opts...)
}

// Options

// WithLogger creates a component-tagged JSON logger for the shell.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithRouteMatcher installs custom route matching semantics.
// Defaults to exact match with longest-prefix fallback.
func WithRouteMatcher(m Matcher) Option {
	return internal.WithRouteMatcher(m)
}

// WithConnectivity sets the initial connectivity mode. Defaults to online.
func WithConnectivity(mode Mode) Option {
	return internal.WithConnectivity(mode)
}

// WithBackendVersions seeds the live backend version snapshot for the
// dependency gate.
func WithBackendVersions(versions map[string]string) Option {
	return internal.WithBackendVersions(versions)
}

// WithVersionProbe configures the HTTP endpoint serving live backend
// versions, used by Shell.RefreshBackendVersions.
func WithVersionProbe(url string, opts ...gate.ProberOption) Option {
	return internal.WithVersionProbe(url, opts...)
}

// WithReadinessCheck adds a named readiness check to the ops surface.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return internal.WithReadinessCheck(name, fn)
}

// Route matchers

// ExactThenPrefix matches routes exactly, with segment-boundary
// longest-prefix fallback. This is the default.
func ExactThenPrefix() Matcher {
	return routing.ExactThenPrefix()
}

// ExactOnly matches routes exactly, with no prefix fallback.
func ExactOnly() Matcher {
	return routing.ExactOnly()
}

// Errors for checking return values.
var (
	ErrSchema             = descriptor.ErrSchema
	ErrDuplicateModule    = registry.ErrDuplicateModule
	ErrDuplicateExtension = registry.ErrDuplicateExtension
	ErrNotRegistered      = registry.ErrNotRegistered
	ErrDependency         = gate.ErrDependency
	ErrLoad               = loader.ErrLoad
	ErrStartup            = lifecycle.ErrStartup
	ErrUnknownModule      = internal.ErrUnknownModule
	ErrUnknownComponent   = internal.ErrUnknownComponent
)
