package pattern

import (
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Stats counts matcher work across Find calls.
type Stats struct {
	PatternsMatched      int
	UnificationAttempts  int
	SuccessfulBindings   int
	ConstraintViolations int
}

// Match is one complete, consistent binding of a pattern against a set,
// together with the predicates that satisfied its positive templates, in
// template order.
type Match struct {
	Bindings   predicate.Bindings
	Predicates []predicate.Predicate
}

// Matcher binds pattern templates against predicate sets by constraint
// propagation: each positive template extends the partial binding from the
// candidates that unify with what is already bound, and negated templates
// prune a branch as soon as they are fully grounded. No cross product of all
// per-template matches is ever materialized.
type Matcher struct {
	// Limit caps the matches returned per Find call. Zero means unlimited.
	Limit int

	stats Stats
}

// NewMatcher returns a matcher with no match limit.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Stats returns the counters accumulated so far.
func (m *Matcher) Stats() Stats {
	return m.stats
}

// ResetStats zeroes the counters.
func (m *Matcher) ResetStats() {
	m.stats = Stats{}
}

// Find returns every consistent binding of the pattern's templates against
// the set, in deterministic order. A pattern with no positive templates
// yields at most the empty binding (when its negated templates are all
// absent).
func (m *Matcher) Find(p Pattern, set *predicate.Set) []Match {
	var positives, negatives []Template
	for _, t := range p.Templates {
		if t.Negated {
			negatives = append(negatives, t)
		} else {
			positives = append(positives, t)
		}
	}

	var matches []Match
	m.search(positives, negatives, 0, predicate.Bindings{}, nil, set, &matches)
	if len(matches) > 0 {
		m.stats.PatternsMatched++
	}
	m.stats.SuccessfulBindings += len(matches)
	return matches
}

func (m *Matcher) search(positives, negatives []Template, depth int, bindings predicate.Bindings, matched []predicate.Predicate, set *predicate.Set, out *[]Match) bool {
	if m.Limit > 0 && len(*out) >= m.Limit {
		return true
	}
	if depth == len(positives) {
		for _, n := range negatives {
			if m.anyMatch(n, bindings, set) {
				m.stats.ConstraintViolations++
				return false
			}
		}
		b := make(predicate.Bindings, len(bindings))
		for k, v := range bindings {
			b[k] = v
		}
		*out = append(*out, Match{Bindings: b, Predicates: append([]predicate.Predicate(nil), matched...)})
		return m.Limit > 0 && len(*out) >= m.Limit
	}

	t := positives[depth]
	for _, cand := range set.GetByName(t.Name) {
		extended, ok := m.unify(t, cand, bindings)
		if !ok {
			continue
		}
		if m.violatesGrounded(negatives, extended, set) {
			continue
		}
		if m.search(positives, negatives, depth+1, extended, append(matched, cand), set, out) {
			return true
		}
	}
	return false
}

// violatesGrounded prunes a partial binding when any negated template has
// become fully grounded and is present in the set.
func (m *Matcher) violatesGrounded(negatives []Template, bindings predicate.Bindings, set *predicate.Set) bool {
	for _, n := range negatives {
		grounded := true
		for _, a := range n.Args {
			if a.Variable {
				if _, ok := bindings[a.Value]; !ok {
					grounded = false
					break
				}
			}
		}
		if grounded && m.anyMatch(n, bindings, set) {
			m.stats.ConstraintViolations++
			return true
		}
	}
	return false
}

// anyMatch reports whether any predicate in the set unifies with the
// template under the given bindings. Unbound template variables act as
// wildcards.
func (m *Matcher) anyMatch(t Template, bindings predicate.Bindings, set *predicate.Set) bool {
	for _, cand := range set.GetByName(t.Name) {
		if _, ok := m.unify(t, cand, bindings); ok {
			return true
		}
	}
	return false
}

// unify extends bindings so the template matches the grounded candidate, or
// reports failure. The input bindings are never mutated.
func (m *Matcher) unify(t Template, cand predicate.Predicate, bindings predicate.Bindings) (predicate.Bindings, bool) {
	m.stats.UnificationAttempts++
	if t.Name != cand.Name || len(t.Args) != len(cand.Args) {
		return nil, false
	}

	extended := make(predicate.Bindings, len(bindings)+len(t.Args))
	for k, v := range bindings {
		extended[k] = v
	}
	for i, a := range t.Args {
		value := cand.Args[i].Value
		if !a.Variable {
			if a.Value != value {
				return nil, false
			}
			continue
		}
		if bound, ok := extended[a.Value]; ok {
			if bound != value {
				m.stats.ConstraintViolations++
				return nil, false
			}
			continue
		}
		extended[a.Value] = value
	}
	return extended, true
}
