package predicate

import "sort"

// Vocabulary is the append-only registry of predicate signatures known to
// the system, indexed by name, category, and arity. Names are unique;
// registering an existing name is rejected, not an error. Signatures are
// never mutated in place, so the registration-order index handed to
// downstream numeric encoders stays stable for the process lifetime.
type Vocabulary struct {
	signatures map[string]Signature
	byCategory map[Category][]string
	byArity    map[int][]string
	order      []string
	indices    map[string]int
}

// NewEmptyVocabulary creates a vocabulary with no signatures.
func NewEmptyVocabulary() *Vocabulary {
	return &Vocabulary{
		signatures: make(map[string]Signature),
		byCategory: make(map[Category][]string),
		byArity:    make(map[int][]string),
		indices:    make(map[string]int),
	}
}

// NewVocabulary creates a vocabulary seeded with the base signatures.
func NewVocabulary() *Vocabulary {
	v := NewEmptyVocabulary()
	for _, s := range baseSignatures() {
		v.AddSignature(s)
	}
	return v
}

// baseSignatures are the hand-defined predicates every knowledge base starts
// from: attributes, functional affordances, spatial relations, and temporal
// ordering.
func baseSignatures() []Signature {
	return []Signature{
		{Name: "color", ArgTypes: []string{"object", "color_value"}, Category: Attribute, Description: "Object is of specified color."},
		{Name: "shape", ArgTypes: []string{"object", "shape_value"}, Category: Attribute, Description: "Object is of specified shape."},
		{Name: "size", ArgTypes: []string{"object", "size_value"}, Category: Attribute, Description: "Object is of specified size."},
		{Name: "type", ArgTypes: []string{"object", "type_value"}, Category: Attribute, Description: "Object is of specified type."},
		{Name: "movable", ArgTypes: []string{"object"}, Category: Functional, Description: "Object can be moved."},
		{Name: "openable", ArgTypes: []string{"object"}, Category: Functional, Description: "Object can be opened."},
		{Name: "locked", ArgTypes: []string{"object"}, Category: Functional, Description: "Object is locked."},
		{Name: "near", ArgTypes: []string{"object1", "object2"}, Category: Spatial, Description: "Object 1 is close to object 2."},
		{Name: "above", ArgTypes: []string{"object1", "object2"}, Category: Spatial, Description: "Object 1 is above object 2."},
		{Name: "under", ArgTypes: []string{"object1", "object2"}, Category: Spatial, Description: "Object 1 is under object 2."},
		{Name: "on", ArgTypes: []string{"object1", "object2"}, Category: Spatial, Description: "Object 1 is on top of object 2."},
		{Name: "left_of", ArgTypes: []string{"object1", "object2"}, Category: Spatial, Description: "Object 1 is left of object 2."},
		{Name: "right_of", ArgTypes: []string{"object1", "object2"}, Category: Spatial, Description: "Object 1 is right of object 2."},
		{Name: "before", ArgTypes: []string{"event1", "event2"}, Category: Temporal, Description: "Event 1 occurs before event 2."},
		{Name: "after", ArgTypes: []string{"event1", "event2"}, Category: Temporal, Description: "Event 1 occurs after event 2."},
	}
}

// AddSignature registers a signature. It returns false when the name already
// exists; existing entries are never replaced.
func (v *Vocabulary) AddSignature(s Signature) bool {
	if _, ok := v.signatures[s.Name]; ok {
		return false
	}
	v.signatures[s.Name] = s
	v.byCategory[s.Category] = append(v.byCategory[s.Category], s.Name)
	v.byArity[s.Arity()] = append(v.byArity[s.Arity()], s.Name)
	v.indices[s.Name] = len(v.order)
	v.order = append(v.order, s.Name)
	return true
}

// GetSignature fetches a signature by name.
func (v *Vocabulary) GetSignature(name string) (Signature, bool) {
	s, ok := v.signatures[name]
	return s, ok
}

// Contains reports whether a signature name is registered.
func (v *Vocabulary) Contains(name string) bool {
	_, ok := v.signatures[name]
	return ok
}

// GetByCategory returns all signatures in a category, sorted by name.
func (v *Vocabulary) GetByCategory(category Category) []Signature {
	return v.collect(v.byCategory[category])
}

// GetByArity returns all signatures with the given arity, sorted by name.
func (v *Vocabulary) GetByArity(arity int) []Signature {
	return v.collect(v.byArity[arity])
}

// ListNames returns all signature names sorted lexically.
func (v *Vocabulary) ListNames() []string {
	names := make([]string, 0, len(v.signatures))
	for name := range v.signatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Index returns the registration-order index of a signature name. The index
// is stable for the process lifetime because the vocabulary is append-only,
// which lets external encoders map predicates to fixed feature positions.
func (v *Vocabulary) Index(name string) (int, bool) {
	i, ok := v.indices[name]
	return i, ok
}

// Size returns the number of registered signatures.
func (v *Vocabulary) Size() int {
	return len(v.signatures)
}

// CreatePredicate builds a predicate validated against the vocabulary. It
// returns false when the name is unregistered, the argument count mismatches
// the signature's arity, or the confidence is out of range.
func (v *Vocabulary) CreatePredicate(name string, args []Term, confidence float64) (Predicate, bool) {
	s, ok := v.signatures[name]
	if !ok {
		return Predicate{}, false
	}
	if len(args) != s.Arity() {
		return Predicate{}, false
	}
	p, err := New(name, args, confidence)
	if err != nil {
		return Predicate{}, false
	}
	return p, true
}

// Complexity counts the base predicates reachable from a signature through
// the component graph. Base signatures count 1.
func (v *Vocabulary) Complexity(name string) int {
	s, ok := v.signatures[name]
	if !ok || len(s.Components) == 0 {
		return 1
	}
	total := 0
	for _, c := range s.Components {
		total += v.Complexity(c)
	}
	return total
}

// Depth is the maximum number of composition levels below a signature. Base
// signatures have depth 0.
func (v *Vocabulary) Depth(name string) int {
	s, ok := v.signatures[name]
	if !ok || len(s.Components) == 0 {
		return 0
	}
	deepest := 0
	for _, c := range s.Components {
		if d := v.Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// WouldCycle reports whether registering a composite with the given name and
// components would create a circular dependency in the component graph.
func (v *Vocabulary) WouldCycle(name string, components []string) bool {
	for _, c := range components {
		if c == name {
			return true
		}
		if v.reaches(c, name, map[string]bool{}) {
			return true
		}
	}
	return false
}

// reaches walks the existing component graph from start looking for target.
func (v *Vocabulary) reaches(start, target string, seen map[string]bool) bool {
	if seen[start] {
		return false
	}
	seen[start] = true
	s, ok := v.signatures[start]
	if !ok {
		return false
	}
	for _, c := range s.Components {
		if c == target || v.reaches(c, target, seen) {
			return true
		}
	}
	return false
}

func (v *Vocabulary) collect(names []string) []Signature {
	out := make([]Signature, 0, len(names))
	for _, name := range names {
		out = append(out, v.signatures[name])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
