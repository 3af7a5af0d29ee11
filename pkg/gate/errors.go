package gate

import "errors"

// Sentinel errors for the dependency gate.
var (
	// ErrDependency is returned when unsatisfied backend constraints block
	// activation of a required module. It affects only that module's
	// entries, never the whole shell.
	ErrDependency = errors.New("gate: unsatisfied backend dependency")

	// ErrProbe is returned when the live version endpoint cannot be read.
	ErrProbe = errors.New("gate: version probe failed")
)
