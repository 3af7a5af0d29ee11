// Package health runs named readiness checks in parallel and exposes them
// as liveness/readiness HTTP handlers for the shell's ops surface.
package health
