// Package util holds small generic helpers shared across the compiler's
// phases: ordered string sets for lookahead/FIRST-set bookkeeping and
// deterministic map iteration.
package util

import (
	"sort"
	"strings"
)

// StringSet is a set of strings backed by a map, with deterministic
// iteration available via Elements/Sorted.
type StringSet map[string]bool

// NewStringSet returns an empty StringSet, optionally seeded from initial.
func NewStringSet(initial ...string) StringSet {
	s := StringSet{}
	for _, v := range initial {
		s.Add(v)
	}
	return s
}

// Add inserts value into the set. No-op if already present.
func (s StringSet) Add(value string) {
	s[value] = true
}

// AddAll inserts every element of o into s.
func (s StringSet) AddAll(o StringSet) {
	for v := range o {
		s.Add(v)
	}
}

// Has reports whether value is a member of s.
func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Remove deletes value from s. No-op if absent.
func (s StringSet) Remove(value string) {
	delete(s, value)
}

// Len returns the number of elements in s.
func (s StringSet) Len() int {
	return len(s)
}

// Empty reports whether s has no elements.
func (s StringSet) Empty() bool {
	return len(s) == 0
}

// Copy returns a shallow duplicate of s.
func (s StringSet) Copy() StringSet {
	out := make(StringSet, len(s))
	out.AddAll(s)
	return out
}

// Union returns a new set containing every element of s and o.
func (s StringSet) Union(o StringSet) StringSet {
	out := s.Copy()
	out.AddAll(o)
	return out
}

// Intersection returns a new set containing only elements present in both s
// and o.
func (s StringSet) Intersection(o StringSet) StringSet {
	out := NewStringSet()
	for v := range s {
		if o.Has(v) {
			out.Add(v)
		}
	}
	return out
}

// Difference returns a new set containing elements of s that are not in o.
func (s StringSet) Difference(o StringSet) StringSet {
	out := s.Copy()
	for v := range o {
		out.Remove(v)
	}
	return out
}

// Equal reports whether s and o contain exactly the same elements.
func (s StringSet) Equal(o StringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o.Has(v) {
			return false
		}
	}
	return true
}

// Any reports whether predicate holds for at least one element of s.
func (s StringSet) Any(predicate func(v string) bool) bool {
	for v := range s {
		if predicate(v) {
			return true
		}
	}
	return false
}

// Elements returns the set's members in unspecified order.
func (s StringSet) Elements() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

// Sorted returns the set's members sorted ascending.
func (s StringSet) Sorted() []string {
	out := s.Elements()
	sort.Strings(out)
	return out
}

// StringOrdered renders the set's contents in a deterministic,
// alphabetized form, usable as a cache key for item-set deduplication.
func (s StringSet) StringOrdered() string {
	var sb strings.Builder
	sb.WriteByte('{')
	sorted := s.Sorted()
	for i, v := range sorted {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v)
	}
	sb.WriteByte('}')
	return sb.String()
}

// OrderedKeys returns the keys of m sorted ascending, for deterministic
// iteration over a map whose natural order is unspecified.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
