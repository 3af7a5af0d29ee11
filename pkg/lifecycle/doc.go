// Package lifecycle coordinates one-time module startup.
//
// Every module has a runtime state record, created lazily on first
// resolution and kept for the process lifetime. EnsureStarted guarantees the
// module's startup hook runs at most once under per-module mutual exclusion,
// while distinct modules start fully in parallel. A failed hook marks the
// module permanently failed: every caller sees the same ErrStartup until the
// shell is reloaded — a module is either fully started or flagged failed.
//
// The state record also carries the backend dependency gate's verdict
// (degraded or blocked) so the shell can consult it on every activation.
package lifecycle
