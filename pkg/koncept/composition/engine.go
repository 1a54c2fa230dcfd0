package composition

import (
	"fmt"
	"sort"
	"time"

	"github.com/cognicore/koncept/pkg/koncept/candidate"
	"github.com/cognicore/koncept/pkg/koncept/pattern"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Defaults for engine thresholds.
const (
	DefaultMaxDepth   = 5
	DefaultMinUtility = 0.1
)

// Engine runs composition discovery. It is seeded with common patterns,
// fed batches of experiences, and grows the vocabulary with the composite
// predicates whose candidates survive validation.
type Engine struct {
	vocabulary *predicate.Vocabulary
	validator  *Validator
	matcher    *pattern.Matcher

	patterns   []pattern.Pattern
	candidates map[string]*candidate.Candidate
	promotions []Promotion
	rejections map[string][]string

	candidatesCreated    int
	compositionsPromoted int
}

// NewEngine builds an engine over the vocabulary, seeded with the common
// conjunction and negation patterns.
func NewEngine(vocabulary *predicate.Vocabulary, maxDepth int, minUtility float64) (*Engine, error) {
	if vocabulary == nil {
		return nil, fmt.Errorf("composition: nil vocabulary")
	}
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	e := &Engine{
		vocabulary: vocabulary,
		validator:  NewValidator(vocabulary, maxDepth, minUtility),
		matcher:    pattern.NewMatcher(),
		candidates: make(map[string]*candidate.Candidate),
		rejections: make(map[string][]string),
	}
	for _, p := range defaultPatterns() {
		e.patterns = append(e.patterns, p)
	}
	return e, nil
}

// defaultPatterns are general-purpose seeds useful across domains: a
// conjunctive accessibility pattern and a safety pattern with negation.
func defaultPatterns() []pattern.Pattern {
	accessible, _ := pattern.New(
		"accessibility_conjunction",
		pattern.Conjunction,
		[]string{"near(?agent, ?obj)", "color(?obj, ?value)"},
		predicate.Signature{
			Name:        "accessible_object",
			ArgTypes:    []string{"object"},
			Category:    predicate.Composite,
			Description: "Object is accessible to agent.",
		},
		0.7, 3,
		"Objects that are near each other and have specific properties.",
	)
	safe, _ := pattern.New(
		"safety_with_negation",
		pattern.Conjunction,
		[]string{"path(?from, ?to)", "¬dangerous(?from, ?to)"},
		predicate.Signature{
			Name:        "safe_path",
			ArgTypes:    []string{"location", "location"},
			Category:    predicate.Composite,
			Description: "Path between locations that is safe.",
		},
		0.8, 2,
		"Paths exist and are not dangerous.",
	)
	return []pattern.Pattern{accessible, safe}
}

// SetMatcherLimit caps the matches the engine considers per pattern per
// experience. Zero means unlimited.
func (e *Engine) SetMatcherLimit(n int) {
	e.matcher.Limit = n
}

// AddPattern registers an additional composition pattern to scan for.
func (e *Engine) AddPattern(p pattern.Pattern) {
	e.patterns = append(e.patterns, p)
}

// Patterns returns the registered composition patterns.
func (e *Engine) Patterns() []pattern.Pattern {
	return append([]pattern.Pattern(nil), e.patterns...)
}

// Analyze is the discovery entry point: it processes a batch of experiences,
// refreshes every candidate's derived metrics, and promotes the candidates
// that clear validation.
func (e *Engine) Analyze(experiences []Experience) {
	for _, exp := range experiences {
		e.processExperience(exp)
	}
	e.evaluateCandidates()
	e.promoteCandidates()
}

// processExperience matches every pattern against the experience and books
// the result as evidence on the per-binding candidate, creating the
// candidate on first sight.
func (e *Engine) processExperience(exp Experience) {
	if exp.Predicates == nil {
		return
	}
	for _, p := range e.patterns {
		for _, m := range e.matcher.Find(p, exp.Predicates) {
			key := candidate.Key(p.Name, m.Bindings)
			c, ok := e.candidates[key]
			if !ok {
				c = candidate.New(p, m.Bindings)
				e.candidates[key] = c
				e.candidatesCreated++
			}

			ev := candidate.Evidence{
				Bindings:   m.Bindings,
				Predicates: m.Predicates,
				Actions:    exp.Actions,
				Outcome:    exp.Outcome,
				Success:    exp.Success,
			}
			if exp.Success {
				c.AddPositive(ev)
			} else {
				c.AddNegative(ev)
			}
		}
	}
}

// evaluateCandidates refreshes the derived metrics on every candidate from
// its accumulated evidence.
func (e *Engine) evaluateCandidates() {
	for _, c := range e.candidates {
		c.CalculateUtility()
		c.CoOccurrence = coOccurrence(c)
		c.Distinctiveness = distinctiveness(c)
	}
}

// coOccurrence is the fraction of observed instances where every positive
// component of the pattern was matched.
func coOccurrence(c *candidate.Candidate) float64 {
	total := c.EvidenceCount()
	if total == 0 {
		return 0.0
	}
	required := 0
	for _, t := range c.Pattern.Templates {
		if !t.Negated {
			required++
		}
	}
	complete := 0
	for _, ev := range append(append([]candidate.Evidence(nil), c.Positive...), c.Negative...) {
		if len(ev.Predicates) >= required {
			complete++
		}
	}
	return float64(complete) / float64(total)
}

// distinctiveness blends structural complexity, binding diversity, and
// better-than-chance confidence into one novelty score.
func distinctiveness(c *candidate.Candidate) float64 {
	complexity := patternComplexity(c.Pattern)
	diversity := bindingDiversity(c)
	predictive := (c.Confidence() - 0.5) * 2.0
	if predictive < 0 {
		predictive = 0
	}
	return (complexity + diversity + predictive) / 3.0
}

func patternComplexity(p pattern.Pattern) float64 {
	components := float64(len(p.Templates)) / 3.0
	if components > 1 {
		components = 1
	}
	variables := float64(len(p.Variables())) / 5.0
	if variables > 1 {
		variables = 1
	}
	return (components + variables) / 2.0
}

// bindingDiversity is the ratio of distinct binding combinations to total
// instances; a single instance carries no diversity signal.
func bindingDiversity(c *candidate.Candidate) float64 {
	total := c.EvidenceCount()
	if total <= 1 {
		return 0.0
	}
	unique := make(map[string]bool, total)
	for _, ev := range append(append([]candidate.Evidence(nil), c.Positive...), c.Negative...) {
		unique[candidate.Key("", ev.Bindings)] = true
	}
	return float64(len(unique)) / float64(total)
}

// promoteCandidates registers every validated candidate's result signature
// in the vocabulary and retires the candidate. Failed validations are kept
// as rejection reasons for inspection.
func (e *Engine) promoteCandidates() {
	keys := make([]string, 0, len(e.candidates))
	for key, c := range e.candidates {
		if c.MeetsCriteria() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		c := e.candidates[key]
		ok, reasons := e.validator.Validate(c)
		if !ok {
			e.rejections[key] = reasons
			continue
		}
		e.promote(key, c)
	}
}

func (e *Engine) promote(key string, c *candidate.Candidate) {
	sig := c.Pattern.Result
	if sig.Category == "" {
		sig.Category = predicate.Composite
	}
	if sig.Description == "" {
		sig.Description = c.Pattern.Description
	}
	sig.Components = c.Pattern.ComponentNames()

	if !e.vocabulary.AddSignature(sig) {
		e.rejections[key] = []string{fmt.Sprintf("signature %s already registered", sig.Name)}
		return
	}

	now := time.Now()
	e.promotions = append(e.promotions, Promotion{
		ID:           newID(now),
		CandidateKey: key,
		Signature:    sig,
		Definition:   c.Definition.String(),
		Support:      c.Support(),
		Confidence:   c.Confidence(),
		Utility:      c.Utility,
		At:           now,
	})
	delete(e.candidates, key)
	delete(e.rejections, key)
	e.compositionsPromoted++
}

// Candidate looks up an active candidate by key.
func (e *Engine) Candidate(key string) (*candidate.Candidate, bool) {
	c, ok := e.candidates[key]
	return c, ok
}

// Candidates returns the active candidates sorted by key.
func (e *Engine) Candidates() []*candidate.Candidate {
	keys := make([]string, 0, len(e.candidates))
	for key := range e.candidates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]*candidate.Candidate, 0, len(keys))
	for _, key := range keys {
		out = append(out, e.candidates[key])
	}
	return out
}

// Promotions returns the promotion events in order of occurrence.
func (e *Engine) Promotions() []Promotion {
	return append([]Promotion(nil), e.promotions...)
}

// Rejections returns the validation failures recorded for candidates that
// met their statistical criteria but did not pass promotion.
func (e *Engine) Rejections() map[string][]string {
	out := make(map[string][]string, len(e.rejections))
	for key, reasons := range e.rejections {
		out[key] = append([]string(nil), reasons...)
	}
	return out
}

// CandidateStats is the per-candidate slice of a statistics snapshot.
type CandidateStats struct {
	Support         int
	Confidence      float64
	Utility         float64
	CoOccurrence    float64
	Distinctiveness float64
}

// Statistics is a point-in-time summary of the discovery process.
type Statistics struct {
	ActiveCandidates     int
	TotalPatterns        int
	CandidatesCreated    int
	CompositionsPromoted int
	Candidates           map[string]CandidateStats
	Matcher              pattern.Stats
}

// Statistics snapshots the engine's discovery state.
func (e *Engine) Statistics() Statistics {
	details := make(map[string]CandidateStats, len(e.candidates))
	for key, c := range e.candidates {
		details[key] = CandidateStats{
			Support:         c.Support(),
			Confidence:      c.Confidence(),
			Utility:         c.Utility,
			CoOccurrence:    c.CoOccurrence,
			Distinctiveness: c.Distinctiveness,
		}
	}
	return Statistics{
		ActiveCandidates:     len(e.candidates),
		TotalPatterns:        len(e.patterns),
		CandidatesCreated:    e.candidatesCreated,
		CompositionsPromoted: e.compositionsPromoted,
		Candidates:           details,
		Matcher:              e.matcher.Stats(),
	}
}
