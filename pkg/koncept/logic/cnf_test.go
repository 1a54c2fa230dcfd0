package logic

import (
	"testing"

	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// allGroundings enumerates every subset of the given facts as a predicate
// set, so CNF equivalence can be checked exhaustively.
func allGroundings(facts []predicate.Predicate) []*predicate.Set {
	n := 1 << len(facts)
	sets := make([]*predicate.Set, 0, n)
	for mask := 0; mask < n; mask++ {
		s := predicate.NewSet()
		for i, f := range facts {
			if mask&(1<<i) != 0 {
				s.Add(f)
			}
		}
		sets = append(sets, s)
	}
	return sets
}

func assertEquivalent(t *testing.T, e Expression, facts []predicate.Predicate) {
	t.Helper()
	cnf := e.ToCNF()
	for _, set := range allGroundings(facts) {
		if e.Evaluate(set, nil) != cnf.Evaluate(set, nil) {
			t.Fatalf("CNF not equivalent for %s over %s\ncnf: %s", e, set, cnf)
		}
	}
}

func TestCNFLiteralUnchanged(t *testing.T) {
	l := Lit(predicate.Fact("near", "a", "b"))
	if _, ok := l.ToCNF().(Literal); !ok {
		t.Error("Literal should already be in CNF")
	}
}

func TestCNFImplicationElimination(t *testing.T) {
	p := predicate.Fact("near", "a", "b")
	q := predicate.Fact("close", "a", "b")
	e := Implies(Lit(p), Lit(q))

	cnf, ok := e.ToCNF().(Compound)
	if !ok || cnf.Op != OpOr {
		t.Fatalf("Expected OR clause, got %v", e.ToCNF())
	}
	assertEquivalent(t, e, []predicate.Predicate{p, q})
}

func TestCNFDeMorgan(t *testing.T) {
	p := predicate.Fact("locked", "door")
	q := predicate.Fact("movable", "door")

	and, _ := And(Lit(p), Lit(q))
	notAnd := Not(and)
	cnf, ok := notAnd.ToCNF().(Compound)
	if !ok || cnf.Op != OpOr {
		t.Fatalf("¬(p ∧ q) should become a disjunction, got %v", notAnd.ToCNF())
	}
	assertEquivalent(t, notAnd, []predicate.Predicate{p, q})

	or, _ := Or(Lit(p), Lit(q))
	notOr := Not(or)
	cnf, ok = notOr.ToCNF().(Compound)
	if !ok || cnf.Op != OpAnd {
		t.Fatalf("¬(p ∨ q) should become a conjunction, got %v", notOr.ToCNF())
	}
	assertEquivalent(t, notOr, []predicate.Predicate{p, q})
}

func TestCNFDoubleNegation(t *testing.T) {
	p := predicate.Fact("locked", "door")
	e := Not(Not(Lit(p)))
	if e.ToCNF().String() != Lit(p).String() {
		t.Errorf("Double negation should cancel, got %s", e.ToCNF())
	}
}

func TestCNFDistributesOrOverAnd(t *testing.T) {
	p := predicate.Fact("near", "a", "b")
	q := predicate.Fact("color", "b", "red")
	r := predicate.Fact("movable", "b")

	// p ∨ (q ∧ r) must become (p ∨ q) ∧ (p ∨ r).
	and, _ := And(Lit(q), Lit(r))
	e, _ := Or(Lit(p), and)

	cnf, ok := e.ToCNF().(Compound)
	if !ok || cnf.Op != OpAnd {
		t.Fatalf("Expected AND of clauses, got %v", e.ToCNF())
	}
	if len(cnf.Operands) != 2 {
		t.Fatalf("Expected 2 clauses, got %d", len(cnf.Operands))
	}
	for _, clause := range cnf.Operands {
		c, ok := clause.(Compound)
		if !ok || c.Op != OpOr {
			t.Errorf("Conjunct should be an OR clause, got %v", clause)
		}
	}
	assertEquivalent(t, e, []predicate.Predicate{p, q, r})
}

func TestCNFIff(t *testing.T) {
	p := predicate.Fact("locked", "door")
	q := predicate.Fact("openable", "door")
	e := Iff(Lit(p), Lit(q))

	cnf, ok := e.ToCNF().(Compound)
	if !ok || cnf.Op != OpAnd {
		t.Fatalf("IFF should convert to a conjunction, got %v", e.ToCNF())
	}
	assertEquivalent(t, e, []predicate.Predicate{p, q})
}

func TestCNFEquivalenceNested(t *testing.T) {
	p := predicate.Fact("near", "a", "b")
	q := predicate.Fact("color", "b", "red")
	r := predicate.Fact("movable", "b")
	s := predicate.Fact("locked", "b")
	facts := []predicate.Predicate{p, q, r, s}

	and1, _ := And(Lit(p), Lit(q))
	or1, _ := Or(and1, Not(Lit(r)))
	nested := Implies(or1, Iff(Lit(s), Lit(p)))
	assertEquivalent(t, nested, facts)

	and2, _ := And(Lit(r), Lit(s))
	or2, _ := Or(Lit(q), and2)
	deep, _ := And(Not(or2), Implies(Lit(p), Lit(r)))
	assertEquivalent(t, deep, facts)
}
