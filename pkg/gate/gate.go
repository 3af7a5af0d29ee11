package gate

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Failure describes one backend dependency constraint that did not hold.
type Failure struct {
	// Service is the backend service name, e.g. "webservices.rest".
	Service string `json:"service"`

	// Constraint is the declared semver range, e.g. ">=2.24.0".
	Constraint string `json:"constraint"`

	// Actual is the live version reported by the backend, empty when the
	// service was absent from the snapshot.
	Actual string `json:"actual,omitempty"`

	// Reason explains the mismatch in one line.
	Reason string `json:"reason"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s: %s", f.Service, f.Constraint, f.Reason)
}

// Result is the gate's verdict on one module's declared dependencies.
type Result struct {
	Failing []Failure `json:"failing,omitempty"`
}

// Satisfied reports whether every declared constraint held.
func (r Result) Satisfied() bool { return len(r.Failing) == 0 }

// Reasons returns the failing constraints as display strings.
func (r Result) Reasons() []string {
	out := make([]string, len(r.Failing))
	for i, f := range r.Failing {
		out[i] = f.String()
	}
	return out
}

// Err returns nil for a satisfied result, or an ErrDependency-wrapped error
// listing every failing constraint.
func (r Result) Err() error {
	if r.Satisfied() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDependency, strings.Join(r.Reasons(), "; "))
}

// Check evaluates declared backend dependencies (service -> semver range)
// against a live version snapshot (service -> version).
//
// A missing service, an unparseable range and an unparseable live version
// all count as failing constraints; a broken declaration must not pass the
// gate silently. An empty dependency map is trivially satisfied.
func Check(deps map[string]string, live map[string]string) Result {
	var res Result

	for service, rng := range deps {
		constraint, err := semver.NewConstraint(rng)
		if err != nil {
			res.Failing = append(res.Failing, Failure{
				Service:    service,
				Constraint: rng,
				Reason:     fmt.Sprintf("invalid constraint: %v", err),
			})
			continue
		}

		actual, ok := live[service]
		if !ok {
			res.Failing = append(res.Failing, Failure{
				Service:    service,
				Constraint: rng,
				Reason:     "service version unknown",
			})
			continue
		}

		version, err := semver.NewVersion(actual)
		if err != nil {
			res.Failing = append(res.Failing, Failure{
				Service:    service,
				Constraint: rng,
				Actual:     actual,
				Reason:     fmt.Sprintf("invalid live version: %v", err),
			})
			continue
		}

		if !constraint.Check(version) {
			res.Failing = append(res.Failing, Failure{
				Service:    service,
				Constraint: rng,
				Actual:     actual,
				Reason:     fmt.Sprintf("version %s does not satisfy %s", actual, rng),
			})
		}
	}

	return res
}
