// Package koncept is a symbolic knowledge base with composition discovery.
// It maintains grounded facts under a predicate vocabulary, derives new
// facts by forward chaining over logical rules, answers textual queries,
// and grows the vocabulary by discovering composite predicates from
// experience.
package koncept

import (
	"context"
	"fmt"

	"github.com/cognicore/koncept/pkg/koncept/candidate"
	"github.com/cognicore/koncept/pkg/koncept/composition"
	"github.com/cognicore/koncept/pkg/koncept/encode"
	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/logic"
	"github.com/cognicore/koncept/pkg/koncept/pattern"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
	"github.com/cognicore/koncept/pkg/koncept/query"
	"github.com/cognicore/koncept/pkg/koncept/store"
)

// Koncept is the main knowledge engine facade.
type Koncept struct {
	store         store.Store
	vocabulary    *predicate.Vocabulary
	facts         *predicate.Set
	reasoner      *logic.Reasoner
	engine        *composition.Engine
	encoder       *encode.Encoder
	maxIterations int

	// promotions already written to the store, counted as a prefix of
	// engine.Promotions().
	persistedPromotions int
}

// Options configures a Koncept instance.
type Options struct {
	// Store persists facts, signatures, experiences, and promotions.
	// Optional; without it the knowledge base is purely in memory.
	Store store.Store

	// Vocabulary to reason over. Defaults to the built-in base vocabulary.
	Vocabulary *predicate.Vocabulary

	// Patterns registered with the discovery engine on top of the common
	// seeds.
	Patterns []pattern.Pattern

	// MaxDepth bounds composite nesting; MinUtility is the promotion
	// utility floor; MaxIterations caps forward chaining; MatcherLimit
	// caps matches per pattern per experience. Zero values take defaults.
	MaxDepth      int
	MinUtility    float64
	MaxIterations int
	MatcherLimit  int
}

// New creates a Koncept instance with the given dependencies.
func New(opts Options) (*Koncept, error) {
	vocabulary := opts.Vocabulary
	if vocabulary == nil {
		vocabulary = predicate.NewVocabulary()
	}

	minUtility := opts.MinUtility
	if minUtility == 0 {
		minUtility = composition.DefaultMinUtility
	}
	engine, err := composition.NewEngine(vocabulary, opts.MaxDepth, minUtility)
	if err != nil {
		return nil, err
	}
	for _, p := range opts.Patterns {
		engine.AddPattern(p)
	}
	if opts.MatcherLimit > 0 {
		engine.SetMatcherLimit(opts.MatcherLimit)
	}

	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = logic.DefaultMaxIterations
	}

	return &Koncept{
		store:         opts.Store,
		vocabulary:    vocabulary,
		facts:         predicate.NewSet(),
		reasoner:      logic.NewReasoner(),
		engine:        engine,
		encoder:       encode.NewEncoder(vocabulary),
		maxIterations: maxIterations,
	}, nil
}

// Close cleanly shuts down the instance.
func (k *Koncept) Close() error {
	if k.store == nil {
		return nil
	}
	return k.store.Close()
}

// Restore reloads persisted facts and composite signatures from the store.
func (k *Koncept) Restore(ctx context.Context) error {
	if k.store == nil {
		return nil
	}

	sigs, err := k.store.GetSignatures(ctx)
	if err != nil {
		return fmt.Errorf("restore signatures: %w", err)
	}
	for _, s := range sigs {
		k.vocabulary.AddSignature(predicate.Signature{
			Name:        s.Name,
			ArgTypes:    s.ArgTypes,
			Category:    predicate.Category(s.Category),
			Description: s.Description,
			Components:  s.Components,
		})
	}

	facts, err := k.store.GetFacts(ctx)
	if err != nil {
		return fmt.Errorf("restore facts: %w", err)
	}
	for _, f := range facts {
		p, err := predicate.New(f.Name, constTerms(f.Args), f.Confidence)
		if err != nil {
			return fmt.Errorf("restore fact %s: %w", f.Key, err)
		}
		k.facts.Add(p)
	}
	return nil
}

// Assert adds a grounded predicate to the knowledge base. Open predicates
// are rejected. When the same fact is already present, the higher
// confidence wins.
func (k *Koncept) Assert(ctx context.Context, p predicate.Predicate) error {
	if !p.IsGrounded() {
		return fmt.Errorf("assert %s: predicate has unbound variables: %w", p.Key(), internalerr.ErrInvalidInput)
	}
	k.facts.Add(p)

	if k.store != nil {
		stored, _ := k.facts.Get(p)
		if err := k.store.UpsertFact(ctx, toStoreFact(stored)); err != nil {
			return fmt.Errorf("assert %s: %w", p.Key(), err)
		}
	}
	return nil
}

// AssertFact is shorthand for asserting a fully confident grounded fact.
func (k *Koncept) AssertFact(ctx context.Context, name string, args ...string) error {
	return k.Assert(ctx, predicate.Fact(name, args...))
}

// Retract removes a fact by key.
func (k *Koncept) Retract(ctx context.Context, key string) error {
	removed := false
	for _, p := range k.facts.List() {
		if p.Key() == key {
			removed = k.facts.Remove(p)
			break
		}
	}
	if !removed {
		return fmt.Errorf("retract %s: %w", key, internalerr.ErrNotFound)
	}
	if k.store != nil {
		if err := k.store.DeleteFact(ctx, key); err != nil {
			return fmt.Errorf("retract %s: %w", key, err)
		}
	}
	return nil
}

// Facts returns a copy of the current fact set, before derivation.
func (k *Koncept) Facts() *predicate.Set {
	return k.facts.Clone()
}

// AddRule registers an inference rule with the reasoner.
func (k *Koncept) AddRule(r logic.Rule) {
	k.reasoner.AddRule(r)
}

// Derive forward-chains the rules over the asserted facts and returns the
// saturated set. The asserted facts are not modified.
func (k *Koncept) Derive() *predicate.Set {
	return k.reasoner.ForwardChain(k.facts, k.maxIterations)
}

// Query parses a textual query and evaluates it against the saturated
// knowledge base.
func (k *Koncept) Query(q string) (bool, error) {
	expr, err := query.Parse(q)
	if err != nil {
		return false, err
	}
	return k.reasoner.Query(expr, k.facts), nil
}

// Explain parses a textual query and reports, literal by literal, how the
// knowledge base supports or fails it.
func (k *Koncept) Explain(q string) ([]string, error) {
	expr, err := query.Parse(q)
	if err != nil {
		return nil, err
	}
	return k.reasoner.Explain(expr, k.facts), nil
}

// Learn feeds a batch of experiences to the discovery engine, then persists
// the surviving candidates, any promoted signatures, and the promotion
// events produced by this batch. Promotions from earlier batches are already
// in the store and are not re-inserted.
func (k *Koncept) Learn(ctx context.Context, experiences []composition.Experience) error {
	k.engine.Analyze(experiences)

	if k.store == nil {
		return nil
	}

	for _, exp := range experiences {
		if err := k.store.InsertExperience(ctx, toStoreExperience(exp)); err != nil {
			return fmt.Errorf("persist experience %s: %w", exp.ID, err)
		}
	}
	for _, c := range k.engine.Candidates() {
		if err := k.store.UpsertCandidate(ctx, toStoreCandidate(c)); err != nil {
			return fmt.Errorf("persist candidate %s: %w", c.Key(), err)
		}
	}
	promotions := k.engine.Promotions()
	for _, promo := range promotions[k.persistedPromotions:] {
		if err := k.store.InsertPromotion(ctx, store.Promotion{
			ID:           promo.ID,
			CandidateKey: promo.CandidateKey,
			Signature:    promo.Signature.Name,
			Definition:   promo.Definition,
			Support:      promo.Support,
			Confidence:   promo.Confidence,
			Utility:      promo.Utility,
			At:           promo.At,
		}); err != nil {
			return fmt.Errorf("persist promotion %s: %w", promo.ID, err)
		}
		if err := k.store.UpsertSignature(ctx, store.Signature{
			Name:        promo.Signature.Name,
			ArgTypes:    promo.Signature.ArgTypes,
			Category:    string(promo.Signature.Category),
			Description: promo.Signature.Description,
			Components:  promo.Signature.Components,
		}); err != nil {
			return fmt.Errorf("persist signature %s: %w", promo.Signature.Name, err)
		}
		if err := k.store.DeleteCandidate(ctx, promo.CandidateKey); err != nil {
			return fmt.Errorf("retire candidate %s: %w", promo.CandidateKey, err)
		}
		k.persistedPromotions++
	}
	return nil
}

// Vocabulary exposes the signature registry.
func (k *Koncept) Vocabulary() *predicate.Vocabulary {
	return k.vocabulary
}

// Statistics snapshots the discovery engine's state.
func (k *Koncept) Statistics() composition.Statistics {
	return k.engine.Statistics()
}

// Promotions returns the promotion events so far.
func (k *Koncept) Promotions() []composition.Promotion {
	return k.engine.Promotions()
}

// Encode renders the current facts as a fixed-position confidence vector
// over the vocabulary.
func (k *Koncept) Encode() []float64 {
	return k.encoder.Vector(k.facts)
}

func constTerms(args []string) []predicate.Term {
	terms := make([]predicate.Term, len(args))
	for i, a := range args {
		terms[i] = predicate.Const(a)
	}
	return terms
}

func toStoreFact(p predicate.Predicate) store.Fact {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.Value
	}
	return store.Fact{
		Key:        p.Key(),
		Name:       p.Name,
		Args:       args,
		Confidence: p.Confidence,
	}
}

func toStoreExperience(exp composition.Experience) store.Experience {
	var facts []store.Fact
	if exp.Predicates != nil {
		for _, p := range exp.Predicates.List() {
			facts = append(facts, toStoreFact(p))
		}
	}
	return store.Experience{
		ID:         exp.ID,
		Predicates: facts,
		Actions:    exp.Actions,
		Outcome:    exp.Outcome,
		Success:    exp.Success,
		Observed:   exp.Observed,
	}
}

func toStoreCandidate(c *candidate.Candidate) store.Candidate {
	return store.Candidate{
		Key:             c.Key(),
		PatternName:     c.Pattern.Name,
		Bindings:        map[string]string(c.Bindings),
		Support:         c.Support(),
		Negative:        len(c.Negative),
		Confidence:      c.Confidence(),
		Utility:         c.Utility,
		CoOccurrence:    c.CoOccurrence,
		Distinctiveness: c.Distinctiveness,
	}
}
