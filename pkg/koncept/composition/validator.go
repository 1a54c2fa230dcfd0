package composition

import (
	"fmt"
	"sort"

	"github.com/cognicore/koncept/pkg/koncept/candidate"
	"github.com/cognicore/koncept/pkg/koncept/logic"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Validator decides whether a candidate is fit to become a composite
// predicate. Every check runs and contributes its reason; a candidate is
// valid only when no check objects, and the caller gets the full list of
// objections rather than the first.
type Validator struct {
	vocabulary *predicate.Vocabulary
	maxDepth   int
	minUtility float64
}

// NewValidator builds a validator against the given vocabulary. maxDepth
// bounds how many composition levels a new composite may sit above the base
// predicates; minUtility is the floor a candidate's utility must clear.
func NewValidator(vocabulary *predicate.Vocabulary, maxDepth int, minUtility float64) *Validator {
	return &Validator{
		vocabulary: vocabulary,
		maxDepth:   maxDepth,
		minUtility: minUtility,
	}
}

// Validate runs all promotion checks against the candidate and returns
// whether it passed together with every reason it did not.
func (v *Validator) Validate(c *candidate.Candidate) (bool, []string) {
	var reasons []string

	if !c.MeetsCriteria() {
		reasons = append(reasons, fmt.Sprintf(
			"insufficient statistical support: %d instances with %.2f confidence",
			c.Support(), c.Confidence()))
	}
	if !coherent(c.Definition) {
		reasons = append(reasons, "logical definition is incoherent or contradictory")
	}

	components := c.Pattern.ComponentNames()
	result := c.Pattern.Result.Name
	if v.vocabulary.WouldCycle(result, components) {
		reasons = append(reasons, fmt.Sprintf(
			"promoting %s would create a circular dependency", result))
	}
	if depth := v.proposedDepth(components); depth > v.maxDepth {
		reasons = append(reasons, fmt.Sprintf(
			"exceeds maximum composition depth of %d", v.maxDepth))
	}
	if c.Utility < v.minUtility {
		reasons = append(reasons, fmt.Sprintf(
			"utility of %.2f is below threshold %.2f", c.Utility, v.minUtility))
	}
	if v.redundant(components) {
		reasons = append(reasons, "composition is redundant with an existing composite predicate")
	}

	return len(reasons) == 0, reasons
}

// proposedDepth is the depth the new composite would have: one level above
// its deepest component.
func (v *Validator) proposedDepth(components []string) int {
	deepest := 0
	for _, c := range components {
		if d := v.vocabulary.Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// redundant reports whether an existing composite already covers exactly the
// same component predicates.
func (v *Validator) redundant(components []string) bool {
	want := append([]string(nil), components...)
	sort.Strings(want)

	for _, s := range v.vocabulary.GetByCategory(predicate.Composite) {
		if len(s.Components) != len(want) {
			continue
		}
		have := append([]string(nil), s.Components...)
		sort.Strings(have)
		same := true
		for i := range have {
			if have[i] != want[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// coherent rejects definitions whose normal form asserts both a literal and
// its negation unconditionally, the P ∧ ¬P shape.
func coherent(def logic.Expression) bool {
	if def == nil {
		return false
	}
	asserted := make(map[string]bool)
	denied := make(map[string]bool)
	for _, clause := range clausesOf(def.ToCNF()) {
		lits := literalsOf(clause)
		if len(lits) != 1 {
			continue
		}
		key, negated, ok := unitLiteral(lits[0])
		if !ok {
			continue
		}
		if negated {
			denied[key] = true
		} else {
			asserted[key] = true
		}
	}
	for key := range asserted {
		if denied[key] {
			return false
		}
	}
	return true
}

// clausesOf splits a CNF expression into its conjoined clauses.
func clausesOf(e logic.Expression) []logic.Expression {
	if c, ok := e.(logic.Compound); ok && c.Op == logic.OpAnd {
		var out []logic.Expression
		for _, op := range c.Operands {
			out = append(out, clausesOf(op)...)
		}
		return out
	}
	return []logic.Expression{e}
}

// literalsOf splits a CNF clause into its disjoined literals.
func literalsOf(e logic.Expression) []logic.Expression {
	if c, ok := e.(logic.Compound); ok && c.Op == logic.OpOr {
		var out []logic.Expression
		for _, op := range c.Operands {
			out = append(out, literalsOf(op)...)
		}
		return out
	}
	return []logic.Expression{e}
}

func unitLiteral(e logic.Expression) (key string, negated bool, ok bool) {
	switch x := e.(type) {
	case logic.Literal:
		return x.Pred.Key(), false, true
	case logic.Compound:
		if x.Op == logic.OpNot && len(x.Operands) == 1 {
			if lit, isLit := x.Operands[0].(logic.Literal); isLit {
				return lit.Pred.Key(), true, true
			}
		}
	}
	return "", false, false
}
