package predicate

import "testing"

func TestVocabularySeededWithBase(t *testing.T) {
	v := NewVocabulary()

	if v.Size() != 15 {
		t.Errorf("Expected 15 base signatures, got %d", v.Size())
	}
	for _, name := range []string{"color", "near", "movable", "before"} {
		if !v.Contains(name) {
			t.Errorf("Base signature %s missing", name)
		}
	}
}

func TestAddSignatureRejectsDuplicate(t *testing.T) {
	v := NewVocabulary()

	if v.AddSignature(Signature{Name: "near", ArgTypes: []string{"a", "b"}, Category: Spatial}) {
		t.Error("Duplicate name should be rejected")
	}

	// The original entry survives.
	s, _ := v.GetSignature("near")
	if s.ArgTypes[0] != "object1" {
		t.Error("Existing signature should not be replaced")
	}
}

func TestVocabularyIndices(t *testing.T) {
	v := NewVocabulary()

	spatial := v.GetByCategory(Spatial)
	if len(spatial) != 6 {
		t.Errorf("Expected 6 spatial signatures, got %d", len(spatial))
	}

	unary := v.GetByArity(1)
	if len(unary) != 3 {
		t.Errorf("Expected 3 unary signatures, got %d", len(unary))
	}
	for _, s := range unary {
		if s.Arity() != 1 {
			t.Errorf("Arity index returned %s with arity %d", s.Name, s.Arity())
		}
	}
}

func TestCreatePredicate(t *testing.T) {
	v := NewVocabulary()

	p, ok := v.CreatePredicate("near", []Term{Const("agent"), Const("door")}, 1.0)
	if !ok {
		t.Fatal("Registered name with matching arity should succeed")
	}
	if p.Key() != "near(agent,door)" {
		t.Errorf("Unexpected key: %s", p.Key())
	}

	if _, ok := v.CreatePredicate("teleports", []Term{Const("x")}, 1.0); ok {
		t.Error("Unregistered name should fail")
	}
	if _, ok := v.CreatePredicate("near", []Term{Const("agent")}, 1.0); ok {
		t.Error("Arity mismatch should fail")
	}
	if _, ok := v.CreatePredicate("near", []Term{Const("a"), Const("b")}, 2.0); ok {
		t.Error("Out-of-range confidence should fail")
	}
}

func TestIndexStableAcrossGrowth(t *testing.T) {
	v := NewVocabulary()

	before, ok := v.Index("near")
	if !ok {
		t.Fatal("near should be indexed")
	}

	v.AddSignature(Signature{
		Name:       "safe_path",
		ArgTypes:   []string{"location", "location"},
		Category:   Composite,
		Components: []string{"path", "dangerous"},
	})

	after, _ := v.Index("near")
	if before != after {
		t.Error("Existing indices must not shift when the vocabulary grows")
	}

	idx, ok := v.Index("safe_path")
	if !ok || idx != v.Size()-1 {
		t.Errorf("New signature should take the next index, got %d", idx)
	}

	if _, ok := v.Index("unregistered"); ok {
		t.Error("unregistered name should not resolve to an index")
	}
}

func TestComplexityAndDepth(t *testing.T) {
	v := NewVocabulary()

	if v.Complexity("near") != 1 || v.Depth("near") != 0 {
		t.Error("Base signatures have complexity 1 and depth 0")
	}

	v.AddSignature(Signature{
		Name: "accessible_object", ArgTypes: []string{"object"},
		Category: Composite, Components: []string{"near", "color"},
	})
	v.AddSignature(Signature{
		Name: "reachable_goal", ArgTypes: []string{"object"},
		Category: Composite, Components: []string{"accessible_object", "movable"},
	})

	if c := v.Complexity("reachable_goal"); c != 3 {
		t.Errorf("Expected complexity 3, got %d", c)
	}
	if d := v.Depth("reachable_goal"); d != 2 {
		t.Errorf("Expected depth 2, got %d", d)
	}
}

func TestWouldCycle(t *testing.T) {
	v := NewVocabulary()
	v.AddSignature(Signature{
		Name: "accessible_object", ArgTypes: []string{"object"},
		Category: Composite, Components: []string{"near", "color"},
	})

	if v.WouldCycle("reachable_goal", []string{"accessible_object"}) {
		t.Error("Acyclic composition flagged as cycle")
	}
	if !v.WouldCycle("reachable_goal", []string{"reachable_goal"}) {
		t.Error("Self reference should be a cycle")
	}

	// near would depend on accessible_object, which depends on near.
	if !v.WouldCycle("near", []string{"accessible_object"}) {
		t.Error("Indirect cycle through the component graph not detected")
	}
}
