package logic

import (
	"fmt"

	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Rule is a logical rule antecedent → consequent used by the reasoner.
// Derived predicates inherit the product of the source confidence and the
// rule's confidence.
type Rule struct {
	Name       string
	Antecedent Expression
	Consequent Expression
	Confidence float64
}

// NewRule builds a rule; an empty name gets a generated one.
func NewRule(name string, antecedent, consequent Expression, confidence float64) Rule {
	if name == "" {
		name = fmt.Sprintf("rule_%p", &antecedent)
	}
	return Rule{Name: name, Antecedent: antecedent, Consequent: consequent, Confidence: confidence}
}

// Apply finds every binding of the rule's antecedent against the set and
// returns the newly entailed grounded consequent predicates. Predicates
// already in the set are not re-derived.
func (r Rule) Apply(set *predicate.Set) []predicate.Predicate {
	var derived []predicate.Predicate
	for _, bindings := range r.findBindings(set) {
		grounded := r.Consequent.Substitute(bindings)
		for _, lit := range consequentLiterals(grounded) {
			if !lit.Pred.IsGrounded() {
				continue
			}
			p := lit.Pred.WithConfidence(lit.Pred.Confidence * r.Confidence)
			if !set.Contains(p) {
				derived = append(derived, p)
			}
		}
	}
	return derived
}

// Variables returns all variable names appearing in the rule.
func (r Rule) Variables() []string {
	names := append(r.Antecedent.Variables(), r.Consequent.Variables()...)
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (r Rule) String() string {
	s := fmt.Sprintf("%s → %s", r.Antecedent, r.Consequent)
	if r.Confidence < 1.0 {
		s += fmt.Sprintf(" [%.2f]", r.Confidence)
	}
	return s
}

// findBindings searches for variable assignments that satisfy the
// antecedent. Positive literals act as generators: each is matched against
// the set, extending a partial binding and pruning on the first conflict.
// Completed bindings are re-checked with a full antecedent evaluation so
// negation and disjunction keep their declared semantics.
func (r Rule) findBindings(set *predicate.Set) []predicate.Bindings {
	generators := positiveLiterals(r.Antecedent)
	if len(generators) == 0 {
		return nil
	}

	var results []predicate.Bindings
	var backtrack func(depth int, partial predicate.Bindings)
	backtrack = func(depth int, partial predicate.Bindings) {
		if depth == len(generators) {
			if r.Antecedent.Evaluate(set, partial) {
				bound := make(predicate.Bindings, len(partial))
				for k, v := range partial {
					bound[k] = v
				}
				results = append(results, bound)
			}
			return
		}
		template := generators[depth]
		for _, candidate := range set.List() {
			extended, ok := unify(template.Pred, candidate, partial)
			if !ok {
				continue
			}
			backtrack(depth+1, extended)
		}
	}
	backtrack(0, predicate.Bindings{})
	return results
}

// unify matches a template predicate (possibly containing variables) against
// a grounded candidate under a partial binding. It returns the extended
// binding, or false on any name, arity, constant, or shared-variable
// conflict.
func unify(template, candidate predicate.Predicate, partial predicate.Bindings) (predicate.Bindings, bool) {
	if template.Name != candidate.Name || template.Arity() != candidate.Arity() {
		return nil, false
	}
	extended := make(predicate.Bindings, len(partial))
	for k, v := range partial {
		extended[k] = v
	}
	for i, arg := range template.Args {
		value := candidate.Args[i].Value
		if !arg.Variable {
			if arg.Value != value {
				return nil, false
			}
			continue
		}
		if bound, ok := extended[arg.Value]; ok {
			if bound != value {
				return nil, false
			}
			continue
		}
		extended[arg.Value] = value
	}
	return extended, true
}

// positiveLiterals collects literals not under a negation; those are the
// only expressions that can generate bindings from the set.
func positiveLiterals(e Expression) []Literal {
	switch v := e.(type) {
	case Literal:
		return []Literal{v}
	case Compound:
		if v.Op == OpNot {
			return nil
		}
		var out []Literal
		for _, o := range v.Operands {
			out = append(out, positiveLiterals(o)...)
		}
		return out
	}
	return nil
}

// consequentLiterals extracts the literals a grounded consequent asserts: a
// bare literal, or the conjuncts of an AND of literals.
func consequentLiterals(e Expression) []Literal {
	switch v := e.(type) {
	case Literal:
		return []Literal{v}
	case Compound:
		if v.Op != OpAnd {
			return nil
		}
		var out []Literal
		for _, o := range v.Operands {
			out = append(out, consequentLiterals(o)...)
		}
		return out
	}
	return nil
}
