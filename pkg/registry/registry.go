package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/appshell/pkg/descriptor"
)

// Handle is an opaque proof of registration, returned by Register and
// required by no other call; it exists so callers can correlate a
// registration with logs and diagnostics.
type Handle struct {
	id     uuid.UUID
	module string
}

// ID returns the unique registration identifier.
func (h Handle) ID() uuid.UUID { return h.id }

// Module returns the registered module name.
func (h Handle) Module() string { return h.module }

func (h Handle) String() string {
	return fmt.Sprintf("%s (%s)", h.module, h.id)
}

// Registry is the metadata catalog of all registered module descriptors.
// Registration is pure bookkeeping: no module code is executed.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	modules  map[string]*descriptor.Descriptor
	order    []string // registration order, drives extension insertion order
	onChange func(Snapshot)
}

// Snapshot is an immutable view of the catalog at one point in time,
// in registration order.
type Snapshot []*descriptor.Descriptor

// New creates an empty registry. The onChange callback, if non-nil, is
// invoked with a fresh snapshot after every successful Register or
// Unregister; the resolution index rebuilds from it.
func New(onChange func(Snapshot)) *Registry {
	return &Registry{
		modules:  make(map[string]*descriptor.Descriptor),
		onChange: onChange,
	}
}

// Register validates the descriptor and adds it to the catalog.
//
// It fails with descriptor.ErrSchema on missing required fields,
// ErrDuplicateModule when the module name is taken, and
// ErrDuplicateExtension when a (slot, name) pair collides with an
// already-registered module. On conflict the earlier registration wins
// and remains untouched.
func (r *Registry) Register(d *descriptor.Descriptor) (Handle, error) {
	if err := d.Validate(); err != nil {
		return Handle{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[d.Name]; exists {
		return Handle{}, fmt.Errorf("%w: %q", ErrDuplicateModule, d.Name)
	}

	for _, ext := range d.Extensions {
		for _, name := range r.order {
			for _, other := range r.modules[name].Extensions {
				if other.Slot == ext.Slot && other.Name == ext.Name {
					return Handle{}, fmt.Errorf("%w: %q in slot %q already registered by module %q",
						ErrDuplicateExtension, ext.Name, ext.Slot, name)
				}
			}
		}
	}

	r.modules[d.Name] = d
	r.order = append(r.order, d.Name)

	r.notifyLocked()
	return Handle{id: uuid.New(), module: d.Name}, nil
}

// Unregister removes a module's descriptor from the catalog and triggers
// an index rebuild. It fails with ErrNotRegistered for unknown modules.
func (r *Registry) Unregister(module string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[module]; !exists {
		return fmt.Errorf("%w: %q", ErrNotRegistered, module)
	}

	delete(r.modules, module)
	for i, name := range r.order {
		if name == module {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.notifyLocked()
	return nil
}

// Get returns the descriptor registered under the given module name.
func (r *Registry) Get(module string) (*descriptor.Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.modules[module]
	return d, ok
}

// Snapshot returns the current catalog in registration order.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) snapshotLocked() Snapshot {
	snap := make(Snapshot, 0, len(r.order))
	for _, name := range r.order {
		snap = append(snap, r.modules[name])
	}
	return snap
}

func (r *Registry) notifyLocked() {
	if r.onChange != nil {
		r.onChange(r.snapshotLocked())
	}
}
