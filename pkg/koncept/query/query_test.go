package query

import (
	"errors"
	"testing"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/logic"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

func TestParseLiteralQuery(t *testing.T) {
	expr, err := Parse("near(robot, box1)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lit, ok := expr.(logic.Literal)
	if !ok {
		t.Fatalf("want literal, got %T", expr)
	}
	if lit.Pred.Name != "near" || lit.Pred.Arity() != 2 {
		t.Errorf("got %s", lit)
	}
}

func TestParseConjunctionWithNegation(t *testing.T) {
	expr, err := Parse("path(a, b) & !dangerous(a, b)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, ok := expr.(logic.Compound)
	if !ok || c.Op != logic.OpAnd || len(c.Operands) != 2 {
		t.Fatalf("want binary AND, got %s", expr)
	}
	neg, ok := c.Operands[1].(logic.Compound)
	if !ok || neg.Op != logic.OpNot {
		t.Fatalf("second operand should be a negation, got %s", c.Operands[1])
	}

	set := predicate.NewSet(predicate.Fact("path", "a", "b"))
	if !expr.Evaluate(set, nil) {
		t.Error("safe path query should hold without danger")
	}
	set.Add(predicate.Fact("dangerous", "a", "b"))
	if expr.Evaluate(set, nil) {
		t.Error("query should fail once danger is present")
	}
}

func TestParseUnicodeOperators(t *testing.T) {
	ascii, err := Parse("locked(door) ∧ ¬openable(door)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, ok := ascii.(logic.Compound)
	if !ok || c.Op != logic.OpAnd {
		t.Fatalf("got %s", ascii)
	}
}

func TestParsePrecedence(t *testing.T) {
	// a(x) | b(x) & c(x) parses as a(x) | (b(x) & c(x)).
	expr, err := Parse("a(x) | b(x) & c(x)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	or, ok := expr.(logic.Compound)
	if !ok || or.Op != logic.OpOr {
		t.Fatalf("top operator should be OR, got %s", expr)
	}
	and, ok := or.Operands[1].(logic.Compound)
	if !ok || and.Op != logic.OpAnd {
		t.Fatalf("right operand should be AND, got %s", or.Operands[1])
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	expr, err := Parse("(a(x) | b(x)) & c(x)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	and, ok := expr.(logic.Compound)
	if !ok || and.Op != logic.OpAnd {
		t.Fatalf("top operator should be AND, got %s", expr)
	}
}

func TestParseImplicationAndVariables(t *testing.T) {
	expr, err := Parse("near(?agent, ?obj) -> reachable(?agent, ?obj)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	imp, ok := expr.(logic.Compound)
	if !ok || imp.Op != logic.OpImplies {
		t.Fatalf("got %s", expr)
	}
	vars := expr.Variables()
	if len(vars) != 2 || vars[0] != "agent" || vars[1] != "obj" {
		t.Errorf("Variables() = %v", vars)
	}
}

func TestParseIff(t *testing.T) {
	expr, err := Parse("open(door) <-> !locked(door)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	iff, ok := expr.(logic.Compound)
	if !ok || iff.Op != logic.OpIff {
		t.Fatalf("got %s", expr)
	}
}

func TestParseErrors(t *testing.T) {
	for _, q := range []string{"", "   ", "near(a, b", "(a(x) & b(x)", "a(x) &", "a(x) b(x)"} {
		if _, err := Parse(q); err == nil {
			t.Errorf("Parse(%q) should fail", q)
		}
	}
	if _, err := Parse("near(a, b"); !errors.Is(err, internalerr.ErrMalformedLiteral) {
		t.Errorf("incomplete literal should be ErrMalformedLiteral, got %v", err)
	}
}
