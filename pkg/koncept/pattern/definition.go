package pattern

import (
	"strings"

	"github.com/cognicore/koncept/pkg/koncept/logic"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Definition turns the pattern's templates into a logical expression per its
// composition type, with variable types inferred from how each variable is
// used across the templates.
func (p Pattern) Definition() logic.Expression {
	types := p.inferVariableTypes()

	var exprs []logic.Expression
	for _, t := range p.Templates {
		args := make([]predicate.Term, len(t.Args))
		for i, a := range t.Args {
			if a.Variable {
				args[i] = predicate.TypedVar(a.Value, types[a.Value])
			} else {
				args[i] = a
			}
		}
		var e logic.Expression = logic.Lit(predicate.Predicate{Name: t.Name, Args: args, Confidence: 1.0})
		if t.Negated {
			e = logic.Not(e)
		}
		exprs = append(exprs, e)
	}

	switch len(exprs) {
	case 0:
		return logic.Lit(predicate.Fact("true"))
	case 1:
		return exprs[0]
	}

	switch p.Type {
	case Disjunction:
		or, _ := logic.Or(exprs...)
		return or
	case Conditional:
		consequent := exprs[1]
		if len(exprs) > 2 {
			consequent, _ = logic.And(exprs[1:]...)
		}
		return logic.Implies(exprs[0], consequent)
	default:
		// Conjunction, negation and quantified types all conjoin their
		// components; negation is carried per-template.
		and, _ := logic.And(exprs...)
		return and
	}
}

// inferVariableTypes guesses a type for each variable from the predicates it
// appears in, falling back to name heuristics.
func (p Pattern) inferVariableTypes() map[string]string {
	types := make(map[string]string)
	for _, t := range p.Templates {
		for i, a := range t.Args {
			if !a.Variable || types[a.Value] != "" {
				continue
			}
			if ty := positionalType(t.Name, i); ty != "" {
				types[a.Value] = ty
			}
		}
	}
	for _, v := range p.Variables() {
		if types[v] == "" {
			types[v] = nameHeuristicType(v)
		}
	}
	return types
}

func positionalType(pred string, pos int) string {
	switch pred {
	case "color":
		if pos == 1 {
			return "color_value"
		}
		return "object"
	case "shape", "size", "type":
		if pos == 1 {
			return "value"
		}
		return "object"
	case "near", "above", "under", "on", "left_of", "right_of":
		return "object"
	case "before", "after":
		return "event"
	}
	return ""
}

func nameHeuristicType(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "agent"), strings.Contains(n, "obj"), strings.Contains(n, "item"):
		return "object"
	case strings.Contains(n, "loc"), strings.Contains(n, "pos"), strings.Contains(n, "from"), strings.Contains(n, "to"), strings.Contains(n, "place"):
		return "location"
	case strings.Contains(n, "color"), strings.Contains(n, "value"):
		return "color_value"
	case strings.Contains(n, "time"), strings.Contains(n, "event"):
		return "event"
	}
	return "object"
}
