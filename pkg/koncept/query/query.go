// Package query parses textual logic queries into expressions.
//
// The syntax mirrors how expressions render: predicate literals like
// "near(robot, box1)" with "?"-prefixed variables, combined with & | -> <->
// and negated with ! (the symbols ∧ ∨ → ↔ ¬ are accepted too), grouped by
// parentheses. Precedence from loosest to tightest: <->, ->, |, &, !.
package query

import (
	"fmt"
	"strings"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/logic"
	"github.com/cognicore/koncept/pkg/koncept/pattern"
)

type parser struct {
	input []rune
	pos   int
}

// Parse parses a query string into a logical expression.
func Parse(input string) (logic.Expression, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("query is empty: %w", internalerr.ErrInvalidInput)
	}
	p := &parser{input: []rune(input)}
	expr, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("query: unexpected %q at offset %d: %w",
			string(p.input[p.pos]), p.pos, internalerr.ErrInvalidInput)
	}
	return expr, nil
}

func (p *parser) parseIff() (logic.Expression, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for p.consume("<->") || p.consume("↔") {
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		left = logic.Iff(left, right)
	}
	return left, nil
}

func (p *parser) parseImplies() (logic.Expression, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.consume("->") || p.consume("→") {
		// Right associative.
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return logic.Implies(left, right), nil
	}
	return left, nil
}

func (p *parser) parseOr() (logic.Expression, error) {
	operands, err := p.parseChain("|", "∨", (*parser).parseAnd)
	if err != nil {
		return nil, err
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return logic.Or(operands...)
}

func (p *parser) parseAnd() (logic.Expression, error) {
	operands, err := p.parseChain("&", "∧", (*parser).parseUnary)
	if err != nil {
		return nil, err
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return logic.And(operands...)
}

func (p *parser) parseChain(op, symbol string, next func(*parser) (logic.Expression, error)) ([]logic.Expression, error) {
	first, err := next(p)
	if err != nil {
		return nil, err
	}
	operands := []logic.Expression{first}
	for p.consume(op) || p.consume(symbol) {
		operand, err := next(p)
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return operands, nil
}

func (p *parser) parseUnary() (logic.Expression, error) {
	if p.consume("!") || p.consume("¬") {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return logic.Not(operand), nil
	}
	if p.consume("(") {
		expr, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if !p.consume(")") {
			return nil, fmt.Errorf("query: missing closing parenthesis: %w", internalerr.ErrInvalidInput)
		}
		return expr, nil
	}
	return p.parseLiteral()
}

// parseLiteral reads a predicate literal like "near(?agent, box1)" and
// reuses the pattern literal parser for its argument handling.
func (p *parser) parseLiteral() (logic.Expression, error) {
	p.skipSpace()
	start := p.pos
	depth := 0
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				tpl, err := pattern.ParseLiteral(string(p.input[start:p.pos]))
				if err != nil {
					return nil, err
				}
				return logic.Lit(tpl.Predicate()), nil
			}
			if depth < 0 {
				return nil, fmt.Errorf("query: unbalanced parenthesis at offset %d: %w", p.pos, internalerr.ErrInvalidInput)
			}
		}
		p.pos++
	}
	return nil, fmt.Errorf("query: incomplete literal %q: %w",
		strings.TrimSpace(string(p.input[start:])), internalerr.ErrMalformedLiteral)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

// consume advances past tok when it appears next, after whitespace.
func (p *parser) consume(tok string) bool {
	p.skipSpace()
	runes := []rune(tok)
	if p.pos+len(runes) > len(p.input) {
		return false
	}
	for i, r := range runes {
		if p.input[p.pos+i] != r {
			return false
		}
	}
	p.pos += len(runes)
	return true
}
