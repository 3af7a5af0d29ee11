package descriptor

import "errors"

// Sentinel errors for descriptor parsing and validation.
var (
	// ErrSchema is returned when a descriptor is missing required fields
	// or violates uniqueness rules. The module is excluded from the catalog.
	ErrSchema = errors.New("descriptor: schema violation")

	// ErrInvalidFile is returned when a descriptor file cannot be parsed.
	ErrInvalidFile = errors.New("descriptor: invalid file")
)
