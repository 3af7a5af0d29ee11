package internal

import "errors"

// Sentinel errors for the shell orchestrator.
var (
	// ErrNilModule is returned when registering a module without a descriptor.
	ErrNilModule = errors.New("appshell: nil module or descriptor")

	// ErrUnknownModule is returned when an entry resolves to a module that
	// is no longer (or was never) registered.
	ErrUnknownModule = errors.New("appshell: unknown module")

	// ErrUnknownComponent is returned when an entry references a loader key
	// the owning module does not export.
	ErrUnknownComponent = errors.New("appshell: unknown component loader")

	// ErrNoProber is returned by RefreshBackendVersions when the shell was
	// built without a version probe endpoint.
	ErrNoProber = errors.New("appshell: no version prober configured")
)
