package registry

import "errors"

// Sentinel errors for registration conflicts.
var (
	// ErrDuplicateModule is returned when a module name is already registered.
	ErrDuplicateModule = errors.New("registry: duplicate module")

	// ErrDuplicateExtension is returned when a (slot, name) pair collides
	// with an extension from an already-registered module.
	ErrDuplicateExtension = errors.New("registry: duplicate extension")

	// ErrNotRegistered is returned when unregistering an unknown module.
	ErrNotRegistered = errors.New("registry: module not registered")
)
