package loader

import "errors"

// Sentinel errors for component activation.
var (
	// ErrLoad is returned when a component's code fetch fails. The failure
	// is cached and resurfaced to every caller until Retry is requested.
	ErrLoad = errors.New("loader: code fetch failed")

	// ErrNilFetch is returned when Activate is called without a fetch
	// function, i.e. the module exports no loader for the requested key.
	ErrNilFetch = errors.New("loader: nil fetch function")
)
