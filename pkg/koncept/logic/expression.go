// Package logic provides first-order logical expressions over predicate
// sets, conversion to conjunctive normal form, and a forward-chaining
// reasoner driven by antecedent/consequent rules.
package logic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Op is a logical connective.
type Op string

const (
	OpAnd     Op = "AND"
	OpOr      Op = "OR"
	OpNot     Op = "NOT"
	OpImplies Op = "IMPLIES"
	OpIff     Op = "IFF"
)

// Expression is a logical formula over predicates. The type is closed: an
// expression is either a Literal or a Compound. Expressions are immutable;
// Substitute and ToCNF return new trees.
type Expression interface {
	// Evaluate reports whether the expression holds against the set, after
	// grounding with the given bindings. A nil bindings map evaluates the
	// expression as-is.
	Evaluate(set *predicate.Set, bindings predicate.Bindings) bool

	// Variables returns the sorted, deduplicated names of all variables the
	// expression depends on.
	Variables() []string

	// Substitute applies bindings throughout the tree.
	Substitute(bindings predicate.Bindings) Expression

	// ToCNF converts the expression to conjunctive normal form.
	ToCNF() Expression

	String() string
}

// Literal is a single predicate used as an expression leaf.
type Literal struct {
	Pred predicate.Predicate
}

// Lit wraps a predicate as an expression.
func Lit(p predicate.Predicate) Literal {
	return Literal{Pred: p}
}

// Evaluate grounds the predicate with the bindings and looks it up in the
// set. Absence is an ordinary false, never an error.
func (l Literal) Evaluate(set *predicate.Set, bindings predicate.Bindings) bool {
	if bindings != nil {
		return set.Contains(l.Pred.Ground(bindings))
	}
	return set.Contains(l.Pred)
}

// Variables returns the literal's variable names.
func (l Literal) Variables() []string {
	names := l.Pred.Variables()
	sort.Strings(names)
	return dedupe(names)
}

// Substitute grounds the wrapped predicate.
func (l Literal) Substitute(bindings predicate.Bindings) Expression {
	return Literal{Pred: l.Pred.Ground(bindings)}
}

// ToCNF returns the literal unchanged; single predicates are already in CNF.
func (l Literal) ToCNF() Expression {
	return l
}

func (l Literal) String() string {
	return l.Pred.String()
}

// Compound is an operator applied to ordered operand expressions.
type Compound struct {
	Op       Op
	Operands []Expression
}

// And builds a conjunction of at least two operands.
func And(operands ...Expression) (Expression, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("AND requires at least 2 operands, got %d: %w", len(operands), internalerr.ErrInvalidInput)
	}
	return compound(OpAnd, operands), nil
}

// Or builds a disjunction of at least two operands.
func Or(operands ...Expression) (Expression, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("OR requires at least 2 operands, got %d: %w", len(operands), internalerr.ErrInvalidInput)
	}
	return compound(OpOr, operands), nil
}

// Not negates a single operand.
func Not(operand Expression) Expression {
	return compound(OpNot, []Expression{operand})
}

// Implies builds antecedent → consequent.
func Implies(antecedent, consequent Expression) Expression {
	return compound(OpImplies, []Expression{antecedent, consequent})
}

// Iff builds a biconditional.
func Iff(left, right Expression) Expression {
	return compound(OpIff, []Expression{left, right})
}

// NewCompound builds a compound expression, enforcing operator arity:
// NOT takes exactly one operand, IMPLIES and IFF exactly two, AND and OR at
// least two.
func NewCompound(op Op, operands []Expression) (Expression, error) {
	switch op {
	case OpNot:
		if len(operands) != 1 {
			return nil, fmt.Errorf("NOT requires exactly 1 operand, got %d: %w", len(operands), internalerr.ErrInvalidInput)
		}
	case OpImplies, OpIff:
		if len(operands) != 2 {
			return nil, fmt.Errorf("%s requires exactly 2 operands, got %d: %w", op, len(operands), internalerr.ErrInvalidInput)
		}
	case OpAnd, OpOr:
		if len(operands) < 2 {
			return nil, fmt.Errorf("%s requires at least 2 operands, got %d: %w", op, len(operands), internalerr.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("unknown operator %q: %w", op, internalerr.ErrInvalidInput)
	}
	return compound(op, operands), nil
}

// compound skips validation; internal callers construct known-valid shapes.
func compound(op Op, operands []Expression) Compound {
	return Compound{Op: op, Operands: append([]Expression(nil), operands...)}
}

// Evaluate applies the operator's truth semantics: AND/OR short-circuit over
// operands, IMPLIES evaluates as ¬a ∨ b, IFF as equality of operand truth.
func (c Compound) Evaluate(set *predicate.Set, bindings predicate.Bindings) bool {
	switch c.Op {
	case OpAnd:
		for _, o := range c.Operands {
			if !o.Evaluate(set, bindings) {
				return false
			}
		}
		return true
	case OpOr:
		for _, o := range c.Operands {
			if o.Evaluate(set, bindings) {
				return true
			}
		}
		return false
	case OpNot:
		return !c.Operands[0].Evaluate(set, bindings)
	case OpImplies:
		return !c.Operands[0].Evaluate(set, bindings) || c.Operands[1].Evaluate(set, bindings)
	case OpIff:
		return c.Operands[0].Evaluate(set, bindings) == c.Operands[1].Evaluate(set, bindings)
	}
	return false
}

// Variables collects variable names from all operands.
func (c Compound) Variables() []string {
	var names []string
	for _, o := range c.Operands {
		names = append(names, o.Variables()...)
	}
	sort.Strings(names)
	return dedupe(names)
}

// Substitute applies bindings to every operand.
func (c Compound) Substitute(bindings predicate.Bindings) Expression {
	operands := make([]Expression, len(c.Operands))
	for i, o := range c.Operands {
		operands[i] = o.Substitute(bindings)
	}
	return compound(c.Op, operands)
}

func (c Compound) String() string {
	if c.Op == OpNot {
		return "¬" + c.Operands[0].String()
	}
	parts := make([]string, len(c.Operands))
	for i, o := range c.Operands {
		parts[i] = o.String()
	}
	var sep string
	switch c.Op {
	case OpAnd:
		sep = " ∧ "
	case OpOr:
		sep = " ∨ "
	case OpImplies:
		sep = " → "
	case OpIff:
		sep = " ↔ "
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}
