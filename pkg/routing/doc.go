// Package routing builds and queries the shell's resolution index.
//
// The index maps route patterns to page entries and slot names to extension
// entries. It is rebuilt from a catalog snapshot on every registry change and
// published via atomic swap, never mutated in place, so readers are lock-free
// and always see a complete generation.
//
// Route matching semantics are pluggable through the Matcher interface; the
// default is exact match with segment-boundary longest-prefix fallback.
package routing
