package routing

// Entry is the common surface of resolved page and extension entries.
// The shell's activation pipeline only needs the owning module and the
// loader key; connectivity filtering needs the mode flags.
type Entry interface {
	// Owner returns the name of the module that contributed the entry.
	Owner() string

	// LoaderKey returns the component loader key the entry references.
	LoaderKey() string

	// SupportsOnline reports availability in online mode.
	SupportsOnline() bool

	// SupportsOffline reports availability in offline mode.
	SupportsOffline() bool
}

// PageEntry is a resolved routable view.
type PageEntry struct {
	Module    string `json:"module"`
	Route     string `json:"route"`
	Component string `json:"component"`
	Online    bool   `json:"online"`
	Offline   bool   `json:"offline"`
}

func (p PageEntry) Owner() string         { return p.Module }
func (p PageEntry) LoaderKey() string     { return p.Component }
func (p PageEntry) SupportsOnline() bool  { return p.Online }
func (p PageEntry) SupportsOffline() bool { return p.Offline }

// ExtensionEntry is a resolved slot occupant.
type ExtensionEntry struct {
	Module    string `json:"module"`
	Slot      string `json:"slot"`
	Name      string `json:"name"`
	Component string `json:"component"`
	Online    bool   `json:"online"`
	Offline   bool   `json:"offline"`

	// Order is the explicit position within the slot, nil when the
	// extension relies on insertion order.
	Order *int `json:"order,omitempty"`
}

func (e ExtensionEntry) Owner() string         { return e.Module }
func (e ExtensionEntry) LoaderKey() string     { return e.Component }
func (e ExtensionEntry) SupportsOnline() bool  { return e.Online }
func (e ExtensionEntry) SupportsOffline() bool { return e.Offline }
