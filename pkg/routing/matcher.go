package routing

import "strings"

// Match describes how a route pattern matched a navigation path.
type Match struct {
	// Exact is true when the pattern equals the path.
	Exact bool

	// Depth is the number of path segments covered by a prefix match.
	// Deeper matches rank ahead of shallower ones.
	Depth int
}

// Matcher decides whether a route pattern matches a navigation path.
// Pattern and path are normalized (no leading or trailing slash) before
// the matcher is consulted.
type Matcher interface {
	Match(pattern, path string) (Match, bool)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(pattern, path string) (Match, bool)

func (f MatcherFunc) Match(pattern, path string) (Match, bool) { return f(pattern, path) }

// ExactThenPrefix matches a pattern exactly, or as a segment-boundary
// prefix of the path: "admin" matches "admin" and "admin/users" but not
// "administrator". This is the default shell matcher.
func ExactThenPrefix() Matcher {
	return MatcherFunc(func(pattern, path string) (Match, bool) {
		if pattern == path {
			return Match{Exact: true, Depth: segments(pattern)}, true
		}
		if pattern != "" && strings.HasPrefix(path, pattern+"/") {
			return Match{Depth: segments(pattern)}, true
		}
		return Match{}, false
	})
}

// ExactOnly matches a pattern only when it equals the path.
func ExactOnly() Matcher {
	return MatcherFunc(func(pattern, path string) (Match, bool) {
		if pattern == path {
			return Match{Exact: true, Depth: segments(pattern)}, true
		}
		return Match{}, false
	})
}

// NormalizePath strips leading and trailing slashes so that "/login",
// "login" and "login/" denote the same route.
func NormalizePath(p string) string {
	return strings.Trim(p, "/")
}

func segments(p string) int {
	if p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}
