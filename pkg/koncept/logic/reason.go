package logic

import (
	"fmt"

	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// DefaultMaxIterations caps forward chaining so cyclic rule sets still
// terminate.
const DefaultMaxIterations = 10

// Reasoner performs forward chaining over an ordered rule list. Rules are
// applied in insertion order and are not deduplicated.
type Reasoner struct {
	rules []Rule
}

// NewReasoner creates a reasoner with no rules.
func NewReasoner() *Reasoner {
	return &Reasoner{}
}

// AddRule appends a rule.
func (r *Reasoner) AddRule(rule Rule) {
	r.rules = append(r.rules, rule)
}

// ClearRules empties the rule list.
func (r *Reasoner) ClearRules() {
	r.rules = nil
}

// RuleCount returns the number of rules.
func (r *Reasoner) RuleCount() int {
	return len(r.rules)
}

// Rules returns the rules in insertion order.
func (r *Reasoner) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// ForwardChain derives new predicates until a fixpoint or the iteration cap.
// Each iteration applies every rule against the current derived set; the
// loop stops early as soon as an iteration adds nothing. The input set is
// not modified. maxIterations <= 0 selects DefaultMaxIterations.
func (r *Reasoner) ForwardChain(set *predicate.Set, maxIterations int) *predicate.Set {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	derived := set.Clone()
	for i := 0; i < maxIterations; i++ {
		var fresh []predicate.Predicate
		for _, rule := range r.rules {
			fresh = append(fresh, rule.Apply(derived)...)
		}
		added := false
		for _, p := range fresh {
			if derived.Add(p) {
				added = true
			}
		}
		if !added {
			break
		}
	}
	return derived
}

// Query saturates the set via forward chaining, then evaluates the
// expression against the result.
func (r *Reasoner) Query(expr Expression, set *predicate.Set) bool {
	return expr.Evaluate(r.ForwardChain(set, DefaultMaxIterations), nil)
}

// Explain reports, per literal of the query, whether it holds directly or
// only after saturation, followed by the overall verdict.
func (r *Reasoner) Explain(expr Expression, set *predicate.Set) []string {
	saturated := r.ForwardChain(set, DefaultMaxIterations)
	var steps []string
	for _, lit := range collectLiterals(expr) {
		switch {
		case set.Contains(lit.Pred):
			steps = append(steps, fmt.Sprintf("✓ %s is directly present", lit.Pred))
		case saturated.Contains(lit.Pred):
			steps = append(steps, fmt.Sprintf("✓ %s is derived by forward chaining", lit.Pred))
		default:
			steps = append(steps, fmt.Sprintf("✗ %s is not present", lit.Pred))
		}
	}
	if expr.Evaluate(saturated, nil) {
		steps = append(steps, fmt.Sprintf("✓ query %s holds", expr))
	} else {
		steps = append(steps, fmt.Sprintf("✗ query %s does not hold", expr))
	}
	return steps
}

func collectLiterals(e Expression) []Literal {
	switch v := e.(type) {
	case Literal:
		return []Literal{v}
	case Compound:
		var out []Literal
		for _, o := range v.Operands {
			out = append(out, collectLiterals(o)...)
		}
		return out
	}
	return nil
}
