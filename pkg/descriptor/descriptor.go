package descriptor

import (
	"errors"
	"fmt"
)

// Descriptor is the static metadata one frontend module publishes.
// It is everything the shell needs to build its resolution index without
// executing any of the module's code.
//
// Descriptors are parsed once and never mutated afterwards.
type Descriptor struct {
	// Name uniquely identifies the module within the shell.
	Name string `json:"name" yaml:"name"`

	// Required marks the module as mandatory: unsatisfied backend
	// dependencies block activation instead of degrading it.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// BackendDependencies maps backend service names to semver range
	// constraints, e.g. "webservices.rest": ">=2.24.0". May be empty.
	BackendDependencies map[string]string `json:"backendDependencies,omitempty" yaml:"backendDependencies,omitempty"`

	// Pages lists the routable views this module contributes, in
	// declaration order.
	Pages []Page `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Extensions lists the UI fragments this module contributes into
	// named slots, in declaration order.
	Extensions []Extension `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Page declares a routable top-level view.
type Page struct {
	// Component names the loader key that produces the page's component.
	Component string `json:"component" yaml:"component"`

	// Route is the route pattern the page answers to. Matching semantics
	// (exact vs prefix) are decided by the routing matcher, not here.
	Route string `json:"route" yaml:"route"`

	// Online and Offline gate the page by connectivity mode.
	// Absent flags default to supported, so descriptors written before the
	// flags existed keep working.
	Online  *bool `json:"online,omitempty" yaml:"online,omitempty"`
	Offline *bool `json:"offline,omitempty" yaml:"offline,omitempty"`
}

// Extension declares a UI fragment for a named slot.
type Extension struct {
	// Name identifies the extension; it must be unique within its slot
	// across all registered modules.
	Name string `json:"name" yaml:"name"`

	// Slot names the insertion point the extension occupies.
	Slot string `json:"slot" yaml:"slot"`

	// Component names the loader key that produces the extension's component.
	Component string `json:"component" yaml:"component"`

	Online  *bool `json:"online,omitempty" yaml:"online,omitempty"`
	Offline *bool `json:"offline,omitempty" yaml:"offline,omitempty"`

	// Order positions the extension within its slot. Lower values render
	// first; extensions without an explicit order follow, in insertion order.
	Order *int `json:"order,omitempty" yaml:"order,omitempty"`
}

// SupportsOnline reports whether the page is available in online mode.
func (p Page) SupportsOnline() bool { return p.Online == nil || *p.Online }

// SupportsOffline reports whether the page is available in offline mode.
func (p Page) SupportsOffline() bool { return p.Offline == nil || *p.Offline }

// SupportsOnline reports whether the extension is available in online mode.
func (e Extension) SupportsOnline() bool { return e.Online == nil || *e.Online }

// SupportsOffline reports whether the extension is available in offline mode.
func (e Extension) SupportsOffline() bool { return e.Offline == nil || *e.Offline }

// Validate checks the descriptor against the schema the registry accepts.
// All violations are reported at once, joined under ErrSchema.
func (d *Descriptor) Validate() error {
	var violations []error

	if d.Name == "" {
		violations = append(violations, errors.New("module name is required"))
	}

	for i, p := range d.Pages {
		if p.Route == "" {
			violations = append(violations, fmt.Errorf("pages[%d]: route is required", i))
		}
		if p.Component == "" {
			violations = append(violations, fmt.Errorf("pages[%d]: component is required", i))
		}
	}

	seen := make(map[[2]string]struct{}, len(d.Extensions))
	for i, e := range d.Extensions {
		if e.Slot == "" {
			violations = append(violations, fmt.Errorf("extensions[%d]: slot is required", i))
		}
		if e.Name == "" {
			violations = append(violations, fmt.Errorf("extensions[%d]: name is required", i))
		}
		if e.Component == "" {
			violations = append(violations, fmt.Errorf("extensions[%d]: component is required", i))
		}
		key := [2]string{e.Slot, e.Name}
		if _, dup := seen[key]; dup && e.Slot != "" && e.Name != "" {
			violations = append(violations, fmt.Errorf("extensions[%d]: duplicate extension %q in slot %q", i, e.Name, e.Slot))
		}
		seen[key] = struct{}{}
	}

	if len(violations) > 0 {
		return errors.Join(append([]error{ErrSchema}, violations...)...)
	}
	return nil
}
