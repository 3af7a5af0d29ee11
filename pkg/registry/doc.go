// Package registry keeps the catalog of registered module descriptors.
//
// Registration is cheap and code-free: the registry only validates and
// stores static metadata. Conflicts (duplicate module name, duplicate
// (slot, name) extension pair) fail the later registration and leave the
// earlier one intact. Every catalog change emits an immutable snapshot so
// the resolution index can rebuild atomically.
package registry
