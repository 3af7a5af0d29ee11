// Package gate verifies declared backend service version constraints
// against the versions the live backend actually runs.
//
// Modules declare constraints as semver ranges ("webservices.rest":
// ">=2.24.0"). Check evaluates them against a version snapshot and returns
// which constraints failed. Policy is decided by the caller: by default an
// unsatisfied result only degrades the module, while modules marked required
// are blocked with ErrDependency, surfaced as a displayable failure for that
// module's pages and extensions only.
//
// Prober fetches the snapshot from an HTTP endpoint; hosts with their own
// discovery can supply the snapshot directly.
package gate
