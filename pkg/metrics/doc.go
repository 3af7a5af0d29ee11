// Package metrics exposes the shell's Prometheus collectors: resolution and
// activation counters, activation latency, startup failures and catalog
// size. Collectors live on a dedicated registry served via Handler.
package metrics
