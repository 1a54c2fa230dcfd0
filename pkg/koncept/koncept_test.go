package koncept

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/koncept/pkg/koncept/composition"
	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/logic"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
	"github.com/cognicore/koncept/pkg/koncept/store/memstore"
)

func newKB(t *testing.T, ms *memstore.Store) *Koncept {
	t.Helper()
	kb, err := New(Options{Store: ms})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return kb
}

func TestAssertRetractPersists(t *testing.T) {
	ctx := context.Background()

	ms := memstore.New()
	defer ms.Close()

	kb := newKB(t, ms)
	defer kb.Close()

	if err := kb.AssertFact(ctx, "near", "robot", "door"); err != nil {
		t.Fatalf("AssertFact: %v", err)
	}

	key := predicate.Fact("near", "robot", "door").Key()
	stored, err := ms.GetFact(ctx, key)
	if err != nil {
		t.Fatalf("GetFact after assert: %v", err)
	}
	if stored.Name != "near" || stored.Confidence != 1.0 {
		t.Errorf("stored fact = %+v", stored)
	}

	if err := kb.Retract(ctx, key); err != nil {
		t.Fatalf("Retract: %v", err)
	}
	if _, err := ms.GetFact(ctx, key); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetFact after retract: %v, want ErrNotFound", err)
	}
	if err := kb.Retract(ctx, key); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("double retract: %v, want ErrNotFound", err)
	}
}

func TestAssertRejectsUnboundVariables(t *testing.T) {
	kb := newKB(t, memstore.New())
	defer kb.Close()

	open, err := predicate.New("near", []predicate.Term{predicate.Var("x"), predicate.Const("door")}, 1.0)
	if err != nil {
		t.Fatalf("predicate.New: %v", err)
	}
	if err := kb.Assert(context.Background(), open); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Assert(open) = %v, want ErrInvalidInput", err)
	}
}

func TestAssertKeepsHigherConfidence(t *testing.T) {
	ctx := context.Background()
	kb := newKB(t, memstore.New())
	defer kb.Close()

	weak, _ := predicate.New("wet", []predicate.Term{predicate.Const("floor")}, 0.4)
	strong, _ := predicate.New("wet", []predicate.Term{predicate.Const("floor")}, 0.9)

	if err := kb.Assert(ctx, strong); err != nil {
		t.Fatalf("Assert strong: %v", err)
	}
	if err := kb.Assert(ctx, weak); err != nil {
		t.Fatalf("Assert weak: %v", err)
	}

	facts := kb.Facts().List()
	if len(facts) != 1 {
		t.Fatalf("want 1 fact, got %d", len(facts))
	}
	if facts[0].Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9 to survive", facts[0].Confidence)
	}
}

func TestDeriveAndQuery(t *testing.T) {
	ctx := context.Background()
	kb := newKB(t, memstore.New())
	defer kb.Close()

	if err := kb.AssertFact(ctx, "parent", "ada", "babbage"); err != nil {
		t.Fatalf("AssertFact: %v", err)
	}

	parent, _ := predicate.New("parent", []predicate.Term{predicate.Var("x"), predicate.Var("y")}, 1.0)
	ancestor, _ := predicate.New("ancestor", []predicate.Term{predicate.Var("x"), predicate.Var("y")}, 1.0)
	kb.AddRule(logic.NewRule("parent_is_ancestor", logic.Lit(parent), logic.Lit(ancestor), 1.0))

	derived := kb.Derive()
	if !derived.Contains(predicate.Fact("ancestor", "ada", "babbage")) {
		t.Fatal("forward chaining should derive ancestor(ada, babbage)")
	}
	// The asserted set stays untouched.
	if kb.Facts().Contains(predicate.Fact("ancestor", "ada", "babbage")) {
		t.Error("Derive must not mutate the asserted facts")
	}

	ok, err := kb.Query("ancestor(ada, babbage) & !ancestor(babbage, ada)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !ok {
		t.Error("query should hold over the saturated set")
	}

	steps, err := kb.Explain("ancestor(ada, babbage)")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if len(steps) == 0 {
		t.Error("Explain should report at least one step")
	}
}

func TestQueryRejectsMalformedInput(t *testing.T) {
	kb := newKB(t, memstore.New())
	defer kb.Close()

	if _, err := kb.Query("near(robot,"); err == nil {
		t.Error("unterminated literal should fail to parse")
	}
	if _, err := kb.Query(""); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty query: %v, want ErrInvalidInput", err)
	}
}

func TestLearnPromotesAndPersists(t *testing.T) {
	ctx := context.Background()

	ms := memstore.New()
	defer ms.Close()

	kb := newKB(t, ms)
	defer kb.Close()

	episode := func() composition.Experience {
		return composition.NewExperience(
			predicate.NewSet(
				predicate.Fact("near", "robot", "box1"),
				predicate.Fact("color", "box1", "red"),
			),
			[]string{"approach box1", "pickup box1"},
			"goal achieved",
			true,
		)
	}
	if err := kb.Learn(ctx, []composition.Experience{episode(), episode(), episode()}); err != nil {
		t.Fatalf("Learn: %v", err)
	}

	if !kb.Vocabulary().Contains("accessible_object") {
		t.Fatal("accessible_object should be promoted after three successes")
	}

	sigs, err := ms.GetSignatures(ctx)
	if err != nil {
		t.Fatalf("GetSignatures: %v", err)
	}
	found := false
	for _, s := range sigs {
		if s.Name == "accessible_object" {
			found = true
		}
	}
	if !found {
		t.Error("promoted signature should be persisted")
	}

	promos, err := ms.GetPromotions(ctx)
	if err != nil {
		t.Fatalf("GetPromotions: %v", err)
	}
	if len(promos) != 1 {
		t.Fatalf("want 1 persisted promotion, got %d", len(promos))
	}
	if promos[0].Signature != "accessible_object" || promos[0].Support != 3 {
		t.Errorf("persisted promotion = %+v", promos[0])
	}

	exps, err := ms.GetExperiences(ctx, 0)
	if err != nil {
		t.Fatalf("GetExperiences: %v", err)
	}
	if len(exps) != 3 {
		t.Errorf("want 3 persisted experiences, got %d", len(exps))
	}

	// The promoted candidate is retired from the store as well.
	cands, err := ms.GetCandidates(ctx)
	if err != nil {
		t.Fatalf("GetCandidates: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("promoted candidate should be deleted, got %d", len(cands))
	}
}

func TestLearnAcrossBatchesPersistsPromotionsOnce(t *testing.T) {
	ctx := context.Background()

	ms := memstore.New()
	defer ms.Close()

	kb := newKB(t, ms)
	defer kb.Close()

	episode := func() composition.Experience {
		return composition.NewExperience(
			predicate.NewSet(
				predicate.Fact("near", "robot", "box1"),
				predicate.Fact("color", "box1", "red"),
			),
			[]string{"approach box1", "pickup box1"},
			"goal achieved",
			true,
		)
	}

	// First batch fires the promotion.
	if err := kb.Learn(ctx, []composition.Experience{episode(), episode(), episode()}); err != nil {
		t.Fatalf("first Learn: %v", err)
	}
	if len(kb.Promotions()) != 1 {
		t.Fatalf("want 1 promotion after first batch, got %d", len(kb.Promotions()))
	}

	// Later batches on the same instance must not re-persist it.
	if err := kb.Learn(ctx, []composition.Experience{episode()}); err != nil {
		t.Fatalf("second Learn: %v", err)
	}
	if err := kb.Learn(ctx, []composition.Experience{episode()}); err != nil {
		t.Fatalf("third Learn: %v", err)
	}

	promos, err := ms.GetPromotions(ctx)
	if err != nil {
		t.Fatalf("GetPromotions: %v", err)
	}
	if len(promos) != 1 {
		t.Fatalf("want exactly 1 persisted promotion event, got %d", len(promos))
	}
	if promos[0].Signature != "accessible_object" {
		t.Errorf("persisted promotion = %+v", promos[0])
	}
}

func TestRestoreRebuildsFromStore(t *testing.T) {
	ctx := context.Background()

	ms := memstore.New()
	defer ms.Close()

	first := newKB(t, ms)
	if err := first.AssertFact(ctx, "near", "robot", "door"); err != nil {
		t.Fatalf("AssertFact: %v", err)
	}
	episode := composition.NewExperience(
		predicate.NewSet(
			predicate.Fact("near", "robot", "box1"),
			predicate.Fact("color", "box1", "red"),
		),
		[]string{"approach box1", "pickup box1"},
		"goal achieved",
		true,
	)
	if err := first.Learn(ctx, []composition.Experience{episode, episode, episode}); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	first.Close()

	second := newKB(t, ms)
	defer second.Close()
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if !second.Facts().Contains(predicate.Fact("near", "robot", "door")) {
		t.Error("restored instance should see the persisted fact")
	}
	if !second.Vocabulary().Contains("accessible_object") {
		t.Error("restored instance should see the promoted signature")
	}
}

func TestEncodeTracksVocabulary(t *testing.T) {
	kb := newKB(t, memstore.New())
	defer kb.Close()

	vec := kb.Encode()
	if len(vec) != kb.Vocabulary().Size() {
		t.Fatalf("vector length %d != vocabulary size %d", len(vec), kb.Vocabulary().Size())
	}

	if err := kb.AssertFact(context.Background(), "near", "robot", "door"); err != nil {
		t.Fatalf("AssertFact: %v", err)
	}
	idx, ok := kb.Vocabulary().Index("near")
	if !ok {
		t.Fatal("near should have a stable vocabulary index")
	}
	if got := kb.Encode()[idx]; got != 1.0 {
		t.Errorf("vector[near] = %v, want 1.0", got)
	}
}
