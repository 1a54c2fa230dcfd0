// Package pattern defines composition-pattern templates and the unification
// matcher that binds them against predicate sets. Component literals are
// parsed once at pattern construction into typed templates; the textual form
// ("near(?agent, ?obj)", "¬dangerous(?a, ?b)") is only an input format.
package pattern

import (
	"fmt"
	"strings"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Type says how a pattern's components combine logically.
type Type string

const (
	Conjunction      Type = "conjunction"
	Disjunction      Type = "disjunction"
	Negation         Type = "negation"
	Conditional      Type = "conditional"
	Existential      Type = "existential"
	Universal        Type = "universal"
	TemporalSequence Type = "temporal_sequence"
)

// ValidType reports whether t is a known composition type.
func ValidType(t Type) bool {
	switch t {
	case Conjunction, Disjunction, Negation, Conditional, Existential, Universal, TemporalSequence:
		return true
	}
	return false
}

// Template is one parsed component literal: a predicate shape whose argument
// slots are constants or variables, possibly negated. Negated templates
// match by absence.
type Template struct {
	Name    string
	Args    []predicate.Term
	Negated bool
}

// Arity returns the template's argument count.
func (t Template) Arity() int {
	return len(t.Args)
}

// Predicate returns the template as a (possibly open) predicate.
func (t Template) Predicate() predicate.Predicate {
	return predicate.Predicate{Name: t.Name, Args: append([]predicate.Term(nil), t.Args...), Confidence: 1.0}
}

// Variables returns the names of the template's variable slots in order.
func (t Template) Variables() []string {
	return t.Predicate().Variables()
}

func (t Template) String() string {
	s := t.Predicate().Key()
	if t.Negated {
		return "¬" + s
	}
	return s
}

// ParseLiteral parses a component literal string such as
// "near(?agent, ?obj)" or "¬dangerous(?from, ?to)". Arguments prefixed with
// "?" become variables; a leading "¬" or "!" marks negation.
func ParseLiteral(s string) (Template, error) {
	s = strings.TrimSpace(s)
	negated := false
	for strings.HasPrefix(s, "¬") || strings.HasPrefix(s, "!") {
		negated = true
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "¬"), "!"))
	}

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Template{}, fmt.Errorf("literal %q: %w", s, internalerr.ErrMalformedLiteral)
	}
	name := strings.TrimSpace(s[:open])
	if !validIdent(name) {
		return Template{}, fmt.Errorf("literal name %q: %w", name, internalerr.ErrMalformedLiteral)
	}

	body := strings.TrimSpace(s[open+1 : len(s)-1])
	var args []predicate.Term
	if body != "" {
		for _, raw := range strings.Split(body, ",") {
			arg := strings.TrimSpace(raw)
			if strings.HasPrefix(arg, "?") {
				name := arg[1:]
				if !validIdent(name) {
					return Template{}, fmt.Errorf("variable %q: %w", arg, internalerr.ErrMalformedLiteral)
				}
				args = append(args, predicate.Var(name))
				continue
			}
			if arg == "" {
				return Template{}, fmt.Errorf("empty argument in %q: %w", s, internalerr.ErrMalformedLiteral)
			}
			args = append(args, predicate.Const(arg))
		}
	}
	return Template{Name: name, Args: args, Negated: negated}, nil
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && r != '-' && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9') {
			return false
		}
	}
	return true
}

// Pattern is an immutable template describing a candidate composite
// predicate: which component literals to look for, how they combine, what
// signature a promotion would register, and the statistical thresholds a
// candidate must clear.
type Pattern struct {
	Name                string
	Type                Type
	Components          []string
	Templates           []Template
	Malformed           []string
	Result              predicate.Signature
	ConfidenceThreshold float64
	MinimumSupport      int
	Description         string
}

// New builds a pattern, parsing its component literals up front. Thresholds
// outside their ranges fail construction; malformed literals are skipped and
// recorded in Malformed, per the parse-failure contract.
func New(name string, t Type, components []string, result predicate.Signature, confidenceThreshold float64, minimumSupport int, description string) (Pattern, error) {
	if name == "" {
		return Pattern{}, fmt.Errorf("pattern name is empty: %w", internalerr.ErrInvalidInput)
	}
	if !ValidType(t) {
		return Pattern{}, fmt.Errorf("composition type %q: %w", t, internalerr.ErrInvalidInput)
	}
	if confidenceThreshold < 0 || confidenceThreshold > 1 {
		return Pattern{}, fmt.Errorf("confidence threshold %v outside [0,1]: %w", confidenceThreshold, internalerr.ErrInvalidInput)
	}
	if minimumSupport < 1 {
		return Pattern{}, fmt.Errorf("minimum support %d below 1: %w", minimumSupport, internalerr.ErrInvalidInput)
	}

	p := Pattern{
		Name:                name,
		Type:                t,
		Components:          append([]string(nil), components...),
		Result:              result,
		ConfidenceThreshold: confidenceThreshold,
		MinimumSupport:      minimumSupport,
		Description:         description,
	}
	for _, c := range components {
		tpl, err := ParseLiteral(c)
		if err != nil {
			p.Malformed = append(p.Malformed, c)
			continue
		}
		p.Templates = append(p.Templates, tpl)
	}
	return p, nil
}

// ComponentNames returns the distinct predicate names referenced by the
// pattern's templates, in first-appearance order.
func (p Pattern) ComponentNames() []string {
	seen := make(map[string]bool, len(p.Templates))
	var names []string
	for _, t := range p.Templates {
		if !seen[t.Name] {
			seen[t.Name] = true
			names = append(names, t.Name)
		}
	}
	return names
}

// Variables returns the distinct variable names across all templates, in
// first-appearance order.
func (p Pattern) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range p.Templates {
		for _, v := range t.Variables() {
			if !seen[v] {
				seen[v] = true
				names = append(names, v)
			}
		}
	}
	return names
}
