package predicate

import "fmt"

// Category classifies a signature by the kind of relation it expresses.
type Category string

const (
	Attribute  Category = "attribute"
	Spatial    Category = "spatial"
	Temporal   Category = "temporal"
	Functional Category = "functional"
	Composite  Category = "composite"
)

// Categories lists all categories in a fixed order.
func Categories() []Category {
	return []Category{Attribute, Spatial, Temporal, Functional, Composite}
}

// Signature is the type contract a predicate must satisfy: its name, ordered
// argument types, and category. Composite signatures additionally record the
// names of the component signatures they were discovered from; the component
// graph lives in the Vocabulary.
type Signature struct {
	Name        string
	ArgTypes    []string
	Category    Category
	Description string
	Components  []string
}

// Arity returns the number of arguments the signature declares.
func (s Signature) Arity() int {
	return len(s.ArgTypes)
}

// IsComposite reports whether the signature was produced by composition
// discovery rather than seeded as a base predicate.
func (s Signature) IsComposite() bool {
	return s.Category == Composite
}

// String renders name(type1, type2) [category].
func (s Signature) String() string {
	args := ""
	for i, t := range s.ArgTypes {
		if i > 0 {
			args += ", "
		}
		args += t
	}
	return fmt.Sprintf("%s(%s) [%s]", s.Name, args, s.Category)
}
