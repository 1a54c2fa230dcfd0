package predicate

// Term is a single predicate argument: either a constant value or a variable.
// Variables are identified by name alone; the optional Type is advisory
// metadata used for type inference when building definitions and never
// participates in binding identity.
type Term struct {
	Value    string
	Variable bool
	Type     string
}

// Const creates a constant term.
func Const(value string) Term {
	return Term{Value: value}
}

// Var creates a variable term.
func Var(name string) Term {
	return Term{Value: name, Variable: true}
}

// TypedVar creates a variable term with an advisory type.
func TypedVar(name, varType string) Term {
	return Term{Value: name, Variable: true, Type: varType}
}

// String renders constants verbatim and variables with a "?" prefix.
func (t Term) String() string {
	if t.Variable {
		return "?" + t.Value
	}
	return t.Value
}

// Bindings maps variable names to constant values.
type Bindings map[string]string
