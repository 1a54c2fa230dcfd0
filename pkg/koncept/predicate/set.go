package predicate

import (
	"sort"
	"strings"
)

// Set is a deduplicating collection of predicates keyed by structural
// identity (name plus arguments, confidence excluded). At most one predicate
// exists per key; inserting a duplicate keeps whichever instance has the
// higher confidence. Sets are not safe for concurrent use.
type Set struct {
	predicates map[string]Predicate
}

// NewSet creates a set holding the given predicates.
func NewSet(predicates ...Predicate) *Set {
	s := &Set{predicates: make(map[string]Predicate, len(predicates))}
	for _, p := range predicates {
		s.Add(p)
	}
	return s
}

// Add inserts a predicate. It returns false when a predicate with the same
// structural key already exists; in that case the higher-confidence instance
// is retained.
func (s *Set) Add(p Predicate) bool {
	key := p.Key()
	if existing, ok := s.predicates[key]; ok {
		if existing.Confidence < p.Confidence {
			s.predicates[key] = p
		}
		return false
	}
	s.predicates[key] = p
	return true
}

// Remove deletes a predicate by structural key. It returns false when the
// predicate was not present.
func (s *Set) Remove(p Predicate) bool {
	key := p.Key()
	if _, ok := s.predicates[key]; !ok {
		return false
	}
	delete(s.predicates, key)
	return true
}

// Contains reports whether a predicate with the same structural key is in
// the set.
func (s *Set) Contains(p Predicate) bool {
	_, ok := s.predicates[p.Key()]
	return ok
}

// Get returns the stored predicate for the given one's structural key.
func (s *Set) Get(p Predicate) (Predicate, bool) {
	stored, ok := s.predicates[p.Key()]
	return stored, ok
}

// GetByName returns all predicates with the given name, sorted by key.
func (s *Set) GetByName(name string) []Predicate {
	var out []Predicate
	for _, p := range s.predicates {
		if p.Name == name {
			out = append(out, p)
		}
	}
	sortPredicates(out)
	return out
}

// FilterByConfidence returns a new set containing only predicates with at
// least the given confidence.
func (s *Set) FilterByConfidence(minimum float64) *Set {
	out := NewSet()
	for _, p := range s.predicates {
		if p.Confidence >= minimum {
			out.Add(p)
		}
	}
	return out
}

// Union returns a new set holding the predicates of both sets. Duplicate
// keys resolve to the higher-confidence instance.
func (s *Set) Union(other *Set) *Set {
	out := NewSet(s.List()...)
	for _, p := range other.List() {
		out.Add(p)
	}
	return out
}

// Intersection returns a new set holding predicates whose keys appear in
// both sets, taking this set's instances.
func (s *Set) Intersection(other *Set) *Set {
	out := NewSet()
	for key, p := range s.predicates {
		if _, ok := other.predicates[key]; ok {
			out.Add(p)
		}
	}
	return out
}

// List returns the predicates sorted by structural key, so iteration order
// is deterministic.
func (s *Set) List() []Predicate {
	out := make([]Predicate, 0, len(s.predicates))
	for _, p := range s.predicates {
		out = append(out, p)
	}
	sortPredicates(out)
	return out
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	return NewSet(s.List()...)
}

// Size returns the number of predicates in the set.
func (s *Set) Size() int {
	return len(s.predicates)
}

// IsEmpty reports whether the set holds no predicates.
func (s *Set) IsEmpty() bool {
	return len(s.predicates) == 0
}

// String renders up to five predicates for logging.
func (s *Set) String() string {
	if s.IsEmpty() {
		return "Set(empty)"
	}
	listed := s.List()
	var parts []string
	for i, p := range listed {
		if i == 5 {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, p.String())
	}
	return "Set(" + strings.Join(parts, ", ") + ")"
}

func sortPredicates(predicates []Predicate) {
	sort.Slice(predicates, func(i, j int) bool {
		return predicates[i].Key() < predicates[j].Key()
	})
}
