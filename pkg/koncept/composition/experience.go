// Package composition discovers composite predicates from experience. The
// engine matches composition patterns against episode predicate sets,
// accumulates candidates keyed by their bindings, and promotes the ones that
// survive statistical and logical validation into the vocabulary.
package composition

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Experience is one episode offered to the discovery engine: the predicates
// that held, the actions taken, and how it ended.
type Experience struct {
	ID         string
	Predicates *predicate.Set
	Actions    []string
	Outcome    string
	Success    bool
	Observed   time.Time
	Meta       map[string]string
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// NewExperience builds an experience with a fresh ULID and timestamp.
func NewExperience(predicates *predicate.Set, actions []string, outcome string, success bool) Experience {
	now := time.Now()
	return Experience{
		ID:         newID(now),
		Predicates: predicates,
		Actions:    actions,
		Outcome:    outcome,
		Success:    success,
		Observed:   now,
	}
}

// Promotion records a candidate crossing into the vocabulary as a composite
// predicate.
type Promotion struct {
	ID           string
	CandidateKey string
	Signature    predicate.Signature
	Definition   string
	Support      int
	Confidence   float64
	Utility      float64
	At           time.Time
}
