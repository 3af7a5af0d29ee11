package lifecycle

import "errors"

// Sentinel errors for module lifecycle.
var (
	// ErrStartup is returned when a module's startup hook fails. The module
	// is flagged failed for the process lifetime; there is no partial
	// success state.
	ErrStartup = errors.New("lifecycle: module startup failed")
)
