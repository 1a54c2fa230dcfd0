// Package candidate tracks evidence for proposed composite predicates. A
// candidate pairs a composition pattern with the concrete bindings it was
// observed under, accumulates positive and negative evidence, and exposes
// the statistics the promotion decision is made from.
package candidate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/koncept/pkg/koncept/logic"
	"github.com/cognicore/koncept/pkg/koncept/pattern"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Evidence is one observed episode bearing on a candidate: the bindings the
// pattern matched under, the predicates that held, what was done, and how it
// turned out.
type Evidence struct {
	Bindings   predicate.Bindings
	Predicates []predicate.Predicate
	Actions    []string
	Outcome    string
	Success    bool
}

// Candidate is a composition pattern under evaluation. Positive evidence
// comes from episodes where the pattern held and the outcome was good;
// negative evidence from episodes where it held but misled. CoOccurrence,
// Distinctiveness and Utility are derived measures maintained by the
// discovery engine.
type Candidate struct {
	Pattern    pattern.Pattern
	Bindings   predicate.Bindings
	Definition logic.Expression

	Positive []Evidence
	Negative []Evidence

	CoOccurrence    float64
	Distinctiveness float64
	Utility         float64
}

// New builds a candidate for the pattern under the given bindings, deriving
// its logical definition from the pattern's templates.
func New(p pattern.Pattern, bindings predicate.Bindings) *Candidate {
	b := make(predicate.Bindings, len(bindings))
	for k, v := range bindings {
		b[k] = v
	}
	return &Candidate{
		Pattern:    p,
		Bindings:   b,
		Definition: p.Definition(),
	}
}

// Key identifies a candidate by its pattern and bindings, so the same match
// observed across episodes accumulates on one candidate.
func Key(patternName string, bindings predicate.Bindings) string {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(patternName)
	sb.WriteByte('|')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s=%s", name, bindings[name])
	}
	return sb.String()
}

// Key returns the candidate's identity key.
func (c *Candidate) Key() string {
	return Key(c.Pattern.Name, c.Bindings)
}

// AddPositive records an episode where the pattern held and was useful.
func (c *Candidate) AddPositive(ev Evidence) {
	c.Positive = append(c.Positive, ev)
}

// AddNegative records an episode where the pattern held but the outcome was
// poor or the pattern proved misleading.
func (c *Candidate) AddNegative(ev Evidence) {
	c.Negative = append(c.Negative, ev)
}

// Support is the count of positive evidence.
func (c *Candidate) Support() int {
	return len(c.Positive)
}

// EvidenceCount is the total evidence observed, positive and negative.
func (c *Candidate) EvidenceCount() int {
	return len(c.Positive) + len(c.Negative)
}

// Confidence is the fraction of evidence that is positive, zero when no
// evidence has been observed.
func (c *Candidate) Confidence() float64 {
	total := c.EvidenceCount()
	if total == 0 {
		return 0.0
	}
	return float64(len(c.Positive)) / float64(total)
}

// CalculateUtility refreshes the stored utility from the candidate's own
// evidence: the fraction of observed episodes that were positive.
func (c *Candidate) CalculateUtility() float64 {
	total := c.EvidenceCount()
	if total == 0 {
		c.Utility = 0.0
		return 0.0
	}
	c.Utility = float64(len(c.Positive)) / float64(total)
	return c.Utility
}

// UtilityFromEpisodes recomputes utility against external episode data: the
// success rate over episodes the composition was relevant to. With no
// relevant episodes the utility is zero.
func (c *Candidate) UtilityFromEpisodes(episodes []Evidence) float64 {
	relevant, successful := 0, 0
	for _, ep := range episodes {
		if !c.RelevantTo(ep) {
			continue
		}
		relevant++
		if ep.Success {
			successful++
		}
	}
	if relevant == 0 {
		c.Utility = 0.0
		return 0.0
	}
	c.Utility = float64(successful) / float64(relevant)
	return c.Utility
}

// MeetsCriteria reports whether the candidate has cleared its pattern's
// promotion thresholds: enough positive instances and a reliable enough
// positive-to-total ratio.
func (c *Candidate) MeetsCriteria() bool {
	return c.Support() >= c.Pattern.MinimumSupport &&
		c.Confidence() >= c.Pattern.ConfidenceThreshold
}

func (c *Candidate) String() string {
	return fmt.Sprintf("%s support=%d confidence=%.2f utility=%.2f",
		c.Key(), c.Support(), c.Confidence(), c.Utility)
}
