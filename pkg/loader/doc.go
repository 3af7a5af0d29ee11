// Package loader implements on-demand component activation.
//
// Each component is a deferred code fetch keyed by (module, loader key).
// A key moves unloaded -> loading -> loaded or failed; both terminal states
// are memoized, so the underlying fetch executes at most once no matter how
// many routes or slots resolve to the same component, and a cached failure
// is resurfaced (never silently retried) until the caller asks for a retry.
//
// Concurrent activations of the same key share one in-flight fetch via
// singleflight. Caller cancellation only stops the wait; the shared fetch
// always completes and caches its result.
package loader
