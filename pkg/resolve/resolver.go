// Package resolve turns a user-supplied free-form string into a canonical
// group identifier via exact-then-fuzzy matching over a full listing.
package resolve

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/idstore-tools/idstore/pkg/directory"
)

// MatchKind says how an identifier was resolved.
type MatchKind string

const (
	// MatchCanonical means the input already had the canonical id shape.
	MatchCanonical MatchKind = "canonical"

	// MatchExact means a display name equalled the input.
	MatchExact MatchKind = "exact"

	// MatchFuzzy means a display name contained the input (case-insensitive).
	MatchFuzzy MatchKind = "fuzzy"
)

// Resolved is the outcome of a successful resolution.
type Resolved struct {
	ID        string
	MatchKind MatchKind
}

// canonicalIDPattern matches the server-assigned id shape:
// hyphenated hex groups of 8-4-4-4-12 characters.
var canonicalIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsCanonicalID reports whether s already has the canonical id shape.
func IsCanonicalID(s string) bool {
	return canonicalIDPattern.MatchString(s)
}

// Resolve maps identifier to a canonical group id.
//
// Order of precedence:
//  1. identifier already has the canonical id shape: returned unchanged,
//     without consulting the listing.
//  2. first group whose display name equals identifier.
//  3. first group whose display name contains identifier, case-insensitive.
//
// An exact match always beats a fuzzy one, even when the fuzzy match
// occurs earlier in listing order. When nothing matches the error wraps
// directory.ErrNotFound and names up to three near-miss suggestions.
func Resolve(identifier string, listing []directory.Group) (Resolved, error) {
	if IsCanonicalID(identifier) {
		return Resolved{ID: identifier, MatchKind: MatchCanonical}, nil
	}

	for _, g := range listing {
		if g.DisplayName == identifier {
			return Resolved{ID: g.ID, MatchKind: MatchExact}, nil
		}
	}

	needle := strings.ToLower(identifier)
	for _, g := range listing {
		if strings.Contains(strings.ToLower(g.DisplayName), needle) {
			return Resolved{ID: g.ID, MatchKind: MatchFuzzy}, nil
		}
	}

	if hints := suggestions(identifier, listing); len(hints) > 0 {
		return Resolved{}, fmt.Errorf("group %q: %w (did you mean %s?)",
			identifier, directory.ErrNotFound, strings.Join(hints, ", "))
	}
	return Resolved{}, fmt.Errorf("group %q: %w", identifier, directory.ErrNotFound)
}

// suggestions ranks display names by fuzzy distance to the input and
// returns up to three of the closest ones.
func suggestions(identifier string, listing []directory.Group) []string {
	names := make([]string, 0, len(listing))
	for _, g := range listing {
		names = append(names, g.DisplayName)
	}

	ranked := fuzzy.RankFindNormalizedFold(identifier, names)
	if len(ranked) == 0 {
		return nil
	}
	sort.Sort(ranked)

	limit := 3
	if len(ranked) < limit {
		limit = len(ranked)
	}

	hints := make([]string, 0, limit)
	for _, r := range ranked[:limit] {
		hints = append(hints, fmt.Sprintf("%q", r.Target))
	}
	return hints
}
