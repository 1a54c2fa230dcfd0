package candidate

import (
	"math"
	"testing"

	"github.com/cognicore/koncept/pkg/koncept/pattern"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

func testPattern(t *testing.T) pattern.Pattern {
	t.Helper()
	result := predicate.Signature{
		Name:     "accessible_object",
		Category: predicate.Composite,
	}
	p, err := pattern.New("accessibility_conjunction", pattern.Conjunction,
		[]string{"near(?agent, ?obj)", "color(?obj, ?value)"},
		result, 0.7, 3, "")
	if err != nil {
		t.Fatalf("pattern.New: %v", err)
	}
	return p
}

func positiveEvidence() Evidence {
	return Evidence{
		Bindings: predicate.Bindings{"agent": "robot", "obj": "box1", "value": "red"},
		Predicates: []predicate.Predicate{
			predicate.Fact("near", "robot", "box1"),
			predicate.Fact("color", "box1", "red"),
		},
		Actions: []string{"approach box1", "pickup box1"},
		Outcome: "goal reached",
		Success: true,
	}
}

func TestKeyIndependentOfBindingOrder(t *testing.T) {
	a := Key("p", predicate.Bindings{"x": "1", "y": "2"})
	b := Key("p", predicate.Bindings{"y": "2", "x": "1"})
	if a != b {
		t.Errorf("keys differ for equal bindings: %q vs %q", a, b)
	}
	if a == Key("p", predicate.Bindings{"x": "1", "y": "3"}) {
		t.Error("keys should differ for different bindings")
	}
	if a == Key("q", predicate.Bindings{"x": "1", "y": "2"}) {
		t.Error("keys should differ for different patterns")
	}
}

func TestConfidenceZeroWithoutEvidence(t *testing.T) {
	c := New(testPattern(t), nil)
	if got := c.Confidence(); got != 0.0 {
		t.Errorf("Confidence() = %v with no evidence, want 0", got)
	}
	if got := c.CalculateUtility(); got != 0.0 {
		t.Errorf("CalculateUtility() = %v with no evidence, want 0", got)
	}
}

func TestConfidenceRatio(t *testing.T) {
	c := New(testPattern(t), nil)
	for n := 0; n < 3; n++ {
		c.AddPositive(positiveEvidence())
	}
	c.AddNegative(Evidence{Success: false})

	if c.Support() != 3 {
		t.Errorf("Support() = %d, want 3", c.Support())
	}
	if c.EvidenceCount() != 4 {
		t.Errorf("EvidenceCount() = %d, want 4", c.EvidenceCount())
	}
	if got := c.Confidence(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Confidence() = %v, want 0.75", got)
	}
	if got := c.CalculateUtility(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("CalculateUtility() = %v, want 0.75", got)
	}
}

func TestConfidenceMonotoneUnderPositiveEvidence(t *testing.T) {
	c := New(testPattern(t), nil)
	c.AddPositive(positiveEvidence())
	c.AddNegative(Evidence{})

	previous := c.Confidence()
	for n := 0; n < 10; n++ {
		c.AddPositive(positiveEvidence())
		if got := c.Confidence(); got < previous {
			t.Fatalf("confidence dropped from %v to %v on positive evidence", previous, got)
		} else {
			previous = got
		}
	}
}

func TestMeetsCriteria(t *testing.T) {
	c := New(testPattern(t), nil)
	c.AddPositive(positiveEvidence())
	c.AddPositive(positiveEvidence())
	if c.MeetsCriteria() {
		t.Error("support 2 should not meet minimum support 3")
	}

	c.AddPositive(positiveEvidence())
	if !c.MeetsCriteria() {
		t.Error("3 positives and no negatives should meet the criteria")
	}

	for n := 0; n < 3; n++ {
		c.AddNegative(Evidence{})
	}
	if c.MeetsCriteria() {
		t.Errorf("confidence %v should be below threshold 0.7", c.Confidence())
	}
}

func TestRelevantToRequiresComponents(t *testing.T) {
	c := New(testPattern(t), nil)
	ep := positiveEvidence()
	if !c.RelevantTo(ep) {
		t.Error("episode with all components and manipulation actions should be relevant")
	}

	missing := ep
	missing.Predicates = []predicate.Predicate{predicate.Fact("near", "robot", "box1")}
	if c.RelevantTo(missing) {
		t.Error("episode missing a component should not be relevant")
	}
}

func TestRelevantToRequiresActionableContext(t *testing.T) {
	c := New(testPattern(t), nil)
	ep := positiveEvidence()
	ep.Actions = []string{"wait"}
	if c.RelevantTo(ep) {
		t.Error("accessibility pattern should need a manipulation action")
	}
}

func TestUtilityFromEpisodes(t *testing.T) {
	c := New(testPattern(t), nil)
	success := positiveEvidence()
	failure := positiveEvidence()
	failure.Success = false
	failure.Outcome = "goal not achieved"
	irrelevant := Evidence{Outcome: "success", Success: true}

	got := c.UtilityFromEpisodes([]Evidence{success, failure, irrelevant})
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("UtilityFromEpisodes = %v, want 0.5", got)
	}

	if got := c.UtilityFromEpisodes([]Evidence{irrelevant}); got != 0.0 {
		t.Errorf("no relevant episodes should give utility 0, got %v", got)
	}
}

func TestDefinitionDerivedFromPattern(t *testing.T) {
	c := New(testPattern(t), predicate.Bindings{"agent": "robot"})
	if c.Definition == nil {
		t.Fatal("candidate should carry a logical definition")
	}
	set := predicate.NewSet(
		predicate.Fact("near", "robot", "box1"),
		predicate.Fact("color", "box1", "red"),
	)
	bindings := predicate.Bindings{"agent": "robot", "obj": "box1", "value": "red"}
	if !c.Definition.Evaluate(set, bindings) {
		t.Error("definition should hold on satisfying episode")
	}
}
