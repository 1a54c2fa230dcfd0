package encode

import (
	"testing"

	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

func TestVectorDimensionTracksVocabulary(t *testing.T) {
	vocab := predicate.NewVocabulary()
	e := NewEncoder(vocab)
	if e.Dimension() != vocab.Size() {
		t.Fatalf("Dimension() = %d, want %d", e.Dimension(), vocab.Size())
	}

	vocab.AddSignature(predicate.Signature{Name: "safe_path", Category: predicate.Composite})
	if e.Dimension() != vocab.Size() {
		t.Errorf("dimension should grow with the vocabulary")
	}
}

func TestFeatureIndicesStableAcrossGrowth(t *testing.T) {
	vocab := predicate.NewVocabulary()
	e := NewEncoder(vocab)
	set := predicate.NewSet(predicate.Fact("near", "robot", "box1"))

	before := e.Features(set)
	vocab.AddSignature(predicate.Signature{Name: "safe_path", Category: predicate.Composite})
	after := e.Features(set)

	if len(before) != 1 || len(after) != 1 {
		t.Fatalf("want 1 feature, got %d then %d", len(before), len(after))
	}
	if before[0].Index != after[0].Index {
		t.Errorf("feature index moved from %d to %d", before[0].Index, after[0].Index)
	}
}

func TestFeaturesKeepHighestConfidence(t *testing.T) {
	vocab := predicate.NewVocabulary()
	e := NewEncoder(vocab)

	weak, _ := predicate.New("color", []predicate.Term{predicate.Const("box1"), predicate.Const("red")}, 0.4)
	strong, _ := predicate.New("color", []predicate.Term{predicate.Const("box2"), predicate.Const("blue")}, 0.9)
	set := predicate.NewSet(weak, strong)

	features := e.Features(set)
	if len(features) != 1 {
		t.Fatalf("want 1 feature for one name, got %d", len(features))
	}
	if features[0].Confidence != 0.9 {
		t.Errorf("feature confidence = %v, want highest", features[0].Confidence)
	}
}

func TestVectorSkipsUnknownPredicates(t *testing.T) {
	vocab := predicate.NewVocabulary()
	e := NewEncoder(vocab)
	set := predicate.NewSet(
		predicate.Fact("near", "robot", "box1"),
		predicate.Fact("unregistered", "x"),
	)

	v := e.Vector(set)
	if len(v) != vocab.Size() {
		t.Fatalf("vector length = %d, want %d", len(v), vocab.Size())
	}
	active := 0
	for _, x := range v {
		if x != 0 {
			active++
		}
	}
	if active != 1 {
		t.Errorf("want 1 active position, got %d", active)
	}
}
