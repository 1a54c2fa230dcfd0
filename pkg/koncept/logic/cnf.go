package logic

// CNF conversion: IFF is rewritten to two IMPLIES, IMPLIES to ¬a ∨ b,
// NOT is pushed to the literals with De Morgan's laws, and OR is fully
// distributed over AND. The result is an AND of OR-clauses (or a single
// clause), logically equivalent to the input for every grounding.

// ToCNF converts the compound to conjunctive normal form.
func (c Compound) ToCNF() Expression {
	switch c.Op {
	case OpIff:
		left, right := c.Operands[0], c.Operands[1]
		return compound(OpAnd, []Expression{
			Implies(left, right),
			Implies(right, left),
		}).ToCNF()
	case OpImplies:
		return compound(OpOr, []Expression{
			Not(c.Operands[0]),
			c.Operands[1],
		}).ToCNF()
	case OpNot:
		return negateCNF(c.Operands[0])
	case OpAnd:
		var conjuncts []Expression
		for _, o := range c.Operands {
			conjuncts = append(conjuncts, conjunctsOf(o.ToCNF())...)
		}
		return conjunction(conjuncts)
	case OpOr:
		operands := make([]Expression, len(c.Operands))
		for i, o := range c.Operands {
			operands[i] = o.ToCNF()
		}
		return distributeOr(operands)
	}
	return c
}

// negateCNF returns the CNF of ¬e by pushing the negation inward.
func negateCNF(e Expression) Expression {
	switch v := e.(type) {
	case Literal:
		return Not(v)
	case Compound:
		switch v.Op {
		case OpNot:
			// Double negation cancels.
			return v.Operands[0].ToCNF()
		case OpAnd:
			negated := make([]Expression, len(v.Operands))
			for i, o := range v.Operands {
				negated[i] = Not(o)
			}
			return compound(OpOr, negated).ToCNF()
		case OpOr:
			negated := make([]Expression, len(v.Operands))
			for i, o := range v.Operands {
				negated[i] = Not(o)
			}
			return compound(OpAnd, negated).ToCNF()
		case OpImplies:
			// ¬(a → b) ≡ a ∧ ¬b
			return compound(OpAnd, []Expression{
				v.Operands[0],
				Not(v.Operands[1]),
			}).ToCNF()
		case OpIff:
			// Eliminate first, then negate the conjunction.
			return negateCNF(v.ToCNF())
		}
	}
	return Not(e)
}

// distributeOr combines CNF operands under OR, distributing over any AND
// operands so the result stays an AND of clauses.
func distributeOr(operands []Expression) Expression {
	// Clause lists per operand: an AND contributes its conjuncts, anything
	// else is a single clause.
	clauseSets := make([][]Expression, len(operands))
	for i, o := range operands {
		clauseSets[i] = conjunctsOf(o)
	}

	// Cross product: one clause from each operand, OR-ed together.
	result := [][]Expression{nil}
	for _, set := range clauseSets {
		var next [][]Expression
		for _, partial := range result {
			for _, clause := range set {
				combined := append(append([]Expression(nil), partial...), disjunctsOf(clause)...)
				next = append(next, combined)
			}
		}
		result = next
	}

	clauses := make([]Expression, len(result))
	for i, literals := range result {
		clauses[i] = disjunction(literals)
	}
	return conjunction(clauses)
}

// conjunctsOf flattens a CNF expression into its top-level conjuncts.
func conjunctsOf(e Expression) []Expression {
	if c, ok := e.(Compound); ok && c.Op == OpAnd {
		var out []Expression
		for _, o := range c.Operands {
			out = append(out, conjunctsOf(o)...)
		}
		return out
	}
	return []Expression{e}
}

// disjunctsOf flattens a clause into its literals.
func disjunctsOf(e Expression) []Expression {
	if c, ok := e.(Compound); ok && c.Op == OpOr {
		var out []Expression
		for _, o := range c.Operands {
			out = append(out, disjunctsOf(o)...)
		}
		return out
	}
	return []Expression{e}
}

func conjunction(conjuncts []Expression) Expression {
	if len(conjuncts) == 1 {
		return conjuncts[0]
	}
	return compound(OpAnd, conjuncts)
}

func disjunction(disjuncts []Expression) Expression {
	if len(disjuncts) == 1 {
		return disjuncts[0]
	}
	return compound(OpOr, disjuncts)
}
