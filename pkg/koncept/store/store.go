package store

import (
	"context"
	"time"
)

// Store is the main interface for persisting and querying knowledge-base
// data: grounded facts, vocabulary signatures, experiences, candidate
// statistics, and promotion events.
type Store interface {
	Close() error

	// Facts
	UpsertFact(ctx context.Context, f Fact) error
	GetFact(ctx context.Context, key string) (Fact, error)
	GetFacts(ctx context.Context) ([]Fact, error)
	DeleteFact(ctx context.Context, key string) error

	// Signatures
	UpsertSignature(ctx context.Context, s Signature) error
	GetSignatures(ctx context.Context) ([]Signature, error)

	// Experiences
	InsertExperience(ctx context.Context, e Experience) error
	GetExperiences(ctx context.Context, limit int) ([]Experience, error)

	// Candidate statistics
	UpsertCandidate(ctx context.Context, c Candidate) error
	GetCandidates(ctx context.Context) ([]Candidate, error)
	DeleteCandidate(ctx context.Context, key string) error

	// Promotions
	InsertPromotion(ctx context.Context, p Promotion) error
	GetPromotions(ctx context.Context) ([]Promotion, error)
}

// Fact is a stored grounded predicate.
type Fact struct {
	Key        string
	Name       string
	Args       []string
	Confidence float64
}

// Signature is a stored predicate signature.
type Signature struct {
	Name        string
	ArgTypes    []string
	Category    string
	Description string
	Components  []string
}

// Experience is a stored episode.
type Experience struct {
	ID         string
	Predicates []Fact
	Actions    []string
	Outcome    string
	Success    bool
	Observed   time.Time
}

// Candidate is the persisted statistical state of a composition candidate.
type Candidate struct {
	Key             string
	PatternName     string
	Bindings        map[string]string
	Support         int
	Negative        int
	Confidence      float64
	Utility         float64
	CoOccurrence    float64
	Distinctiveness float64
}

// Promotion is a stored promotion event.
type Promotion struct {
	ID           string
	CandidateKey string
	Signature    string
	Definition   string
	Support      int
	Confidence   float64
	Utility      float64
	At           time.Time
}
