// Package internal implements the app shell orchestrator behind the public
// appshell package: module registration, the resolution pipeline
// (index -> connectivity filter -> dependency gate -> lifecycle -> loader)
// and the ops HTTP surface.
package internal
