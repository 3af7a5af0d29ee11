package routing

import (
	"slices"
	"sort"
	"sync/atomic"

	"github.com/dmitrymomot/appshell/pkg/descriptor"
)

// Index is the reverse-lookup structure over the descriptor catalog:
// route pattern to page entries and slot name to extension entries.
//
// The index is rebuilt as a whole on catalog changes and published with an
// atomic pointer swap, so concurrent resolutions never observe a partially
// built index. Resolution itself is read-only and lock-free.
type Index struct {
	matcher Matcher
	state   atomic.Pointer[snapshot]
}

// snapshot is one immutable generation of the index.
type snapshot struct {
	// patterns holds one bucket per distinct normalized route pattern,
	// in first-seen order. Resolution scans patterns, not modules.
	patterns []patternBucket
	slots    map[string][]ExtensionEntry
}

type patternBucket struct {
	pattern string
	entries []PageEntry
}

// NewIndex creates an empty index using the given matcher.
// A nil matcher defaults to ExactThenPrefix.
func NewIndex(matcher Matcher) *Index {
	if matcher == nil {
		matcher = ExactThenPrefix()
	}
	idx := &Index{matcher: matcher}
	idx.state.Store(&snapshot{slots: map[string][]ExtensionEntry{}})
	return idx
}

// Rebuild constructs a fresh index from the catalog and swaps it in.
// Cost is O(total entries). Catalog order defines insertion order.
func (idx *Index) Rebuild(catalog []*descriptor.Descriptor) {
	next := &snapshot{slots: make(map[string][]ExtensionEntry)}
	byPattern := make(map[string]int)

	for _, d := range catalog {
		for _, p := range d.Pages {
			entry := PageEntry{
				Module:    d.Name,
				Route:     NormalizePath(p.Route),
				Component: p.Component,
				Online:    p.SupportsOnline(),
				Offline:   p.SupportsOffline(),
			}
			i, seen := byPattern[entry.Route]
			if !seen {
				i = len(next.patterns)
				byPattern[entry.Route] = i
				next.patterns = append(next.patterns, patternBucket{pattern: entry.Route})
			}
			next.patterns[i].entries = append(next.patterns[i].entries, entry)
		}

		for _, e := range d.Extensions {
			next.slots[e.Slot] = append(next.slots[e.Slot], ExtensionEntry{
				Module:    d.Name,
				Slot:      e.Slot,
				Name:      e.Name,
				Component: e.Component,
				Online:    e.SupportsOnline(),
				Offline:   e.SupportsOffline(),
				Order:     e.Order,
			})
		}
	}

	// Stable total order per slot: explicit orders ascending, then the
	// unordered tail in insertion order.
	for _, entries := range next.slots {
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i].Order, entries[j].Order
			switch {
			case a != nil && b != nil:
				return *a < *b
			case a != nil:
				return true
			default:
				return false
			}
		})
	}

	idx.state.Store(next)
}

// ResolveRoute returns every page entry whose pattern matches the path,
// exact matches first, then prefix matches deepest-first. Ties keep
// registration order. An unknown path yields an empty (nil) result,
// not an error.
func (idx *Index) ResolveRoute(path string) []PageEntry {
	snap := idx.state.Load()
	path = NormalizePath(path)

	type scored struct {
		match  Match
		bucket *patternBucket
	}
	var matches []scored
	for i := range snap.patterns {
		b := &snap.patterns[i]
		if m, ok := idx.matcher.Match(b.pattern, path); ok {
			matches = append(matches, scored{match: m, bucket: b})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].match, matches[j].match
		if a.Exact != b.Exact {
			return a.Exact
		}
		return a.Depth > b.Depth
	})

	var out []PageEntry
	for _, m := range matches {
		out = append(out, m.bucket.entries...)
	}
	return out
}

// ResolveSlot returns the extension entries registered for the slot in
// their stable total order. Unknown slots yield an empty result.
func (idx *Index) ResolveSlot(slot string) []ExtensionEntry {
	snap := idx.state.Load()
	return slices.Clone(snap.slots[slot])
}
