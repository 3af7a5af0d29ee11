package connectivity

// Mode is the shell's connectivity mode.
type Mode int

const (
	// Online is the default mode: the backend is reachable.
	Online Mode = iota

	// Offline means the shell runs against local caches only.
	Offline
)

func (m Mode) String() string {
	if m == Offline {
		return "offline"
	}
	return "online"
}

// Capable is the subset of a resolved entry the filter needs.
// Both routing.PageEntry and routing.ExtensionEntry implement it.
type Capable interface {
	SupportsOnline() bool
	SupportsOffline() bool
}

// Filter returns the entries that support the given mode, preserving input
// order. It is pure: no side effects, no failure modes. Entries whose
// descriptor omitted the flags support both modes and always pass.
func Filter[E Capable](entries []E, mode Mode) []E {
	if len(entries) == 0 {
		return entries
	}

	out := make([]E, 0, len(entries))
	for _, e := range entries {
		if supports(e, mode) {
			out = append(out, e)
		}
	}
	return out
}

func supports(e Capable, mode Mode) bool {
	if mode == Offline {
		return e.SupportsOffline()
	}
	return e.SupportsOnline()
}
