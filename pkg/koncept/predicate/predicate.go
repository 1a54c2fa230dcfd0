// Package predicate defines the symbolic knowledge data model: grounded
// facts, their type signatures, deduplicating predicate sets, and the
// vocabulary registry of known signatures.
package predicate

import (
	"fmt"
	"strings"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
)

// Predicate is an atomic symbolic fact such as near(agent, door) or
// color(block1, red), with a confidence in [0, 1]. Predicates are immutable;
// Ground and WithConfidence return new values.
type Predicate struct {
	Name       string
	Args       []Term
	Confidence float64
}

// New constructs a predicate, rejecting out-of-range confidence.
func New(name string, args []Term, confidence float64) (Predicate, error) {
	if name == "" {
		return Predicate{}, fmt.Errorf("predicate name is empty: %w", internalerr.ErrInvalidInput)
	}
	if confidence < 0 || confidence > 1 {
		return Predicate{}, fmt.Errorf("confidence %v outside [0,1]: %w", confidence, internalerr.ErrInvalidInput)
	}
	return Predicate{Name: name, Args: append([]Term(nil), args...), Confidence: confidence}, nil
}

// Fact creates a fully grounded predicate over constant arguments with
// confidence 1. Convenience for the common case.
func Fact(name string, args ...string) Predicate {
	terms := make([]Term, len(args))
	for i, a := range args {
		terms[i] = Const(a)
	}
	return Predicate{Name: name, Args: terms, Confidence: 1.0}
}

// Arity returns the number of arguments.
func (p Predicate) Arity() int {
	return len(p.Args)
}

// IsGrounded reports whether the predicate has no variable arguments.
func (p Predicate) IsGrounded() bool {
	for _, a := range p.Args {
		if a.Variable {
			return false
		}
	}
	return true
}

// Key is the structural identity of the predicate: name plus arguments,
// confidence excluded. Two predicates with the same key occupy one slot in a
// Set.
func (p Predicate) Key() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteByte('(')
	for i, a := range p.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Ground applies variable bindings, producing a new predicate. Unbound
// variables are left in place.
func (p Predicate) Ground(bindings Bindings) Predicate {
	args := make([]Term, len(p.Args))
	for i, a := range p.Args {
		if a.Variable {
			if value, ok := bindings[a.Value]; ok {
				args[i] = Const(value)
				continue
			}
		}
		args[i] = a
	}
	return Predicate{Name: p.Name, Args: args, Confidence: p.Confidence}
}

// WithConfidence returns a copy of the predicate with the given confidence.
func (p Predicate) WithConfidence(confidence float64) Predicate {
	return Predicate{Name: p.Name, Args: append([]Term(nil), p.Args...), Confidence: confidence}
}

// Variables returns the names of all variable arguments, in argument order.
func (p Predicate) Variables() []string {
	var names []string
	for _, a := range p.Args {
		if a.Variable {
			names = append(names, a.Value)
		}
	}
	return names
}

// Equal reports full equality: name, arguments, and confidence.
func (p Predicate) Equal(other Predicate) bool {
	return p.Confidence == other.Confidence && p.Key() == other.Key()
}

// String renders name(a,b) with a [confidence] suffix when below 1.
func (p Predicate) String() string {
	if p.Confidence < 1.0 {
		return fmt.Sprintf("%s[%.2f]", p.Key(), p.Confidence)
	}
	return p.Key()
}
