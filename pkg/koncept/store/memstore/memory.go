// Package memstore is an in-memory implementation of store.Store for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu          sync.RWMutex
	facts       map[string]store.Fact
	signatures  map[string]store.Signature
	experiences []store.Experience
	candidates  map[string]store.Candidate
	promotions  []store.Promotion
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		facts:      make(map[string]store.Fact),
		signatures: make(map[string]store.Signature),
		candidates: make(map[string]store.Candidate),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertFact inserts or updates a fact, keyed by Key.
func (s *Store) UpsertFact(ctx context.Context, f store.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts[f.Key] = f
	return nil
}

// GetFact returns a fact by key.
func (s *Store) GetFact(ctx context.Context, key string) (store.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.facts[key]; ok {
		return f, nil
	}
	return store.Fact{}, fmt.Errorf("fact %q: %w", key, internalerr.ErrNotFound)
}

// GetFacts returns all facts ordered by key.
func (s *Store) GetFacts(ctx context.Context) ([]store.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.facts))
	for key := range s.facts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]store.Fact, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.facts[key])
	}
	return out, nil
}

// DeleteFact removes a fact by key.
func (s *Store) DeleteFact(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.facts, key)
	return nil
}

// UpsertSignature inserts or updates a signature, keyed by name.
func (s *Store) UpsertSignature(ctx context.Context, sig store.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signatures[sig.Name] = sig
	return nil
}

// GetSignatures returns all signatures ordered by name.
func (s *Store) GetSignatures(ctx context.Context) ([]store.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.signatures))
	for name := range s.signatures {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]store.Signature, 0, len(names))
	for _, name := range names {
		out = append(out, s.signatures[name])
	}
	return out, nil
}

// InsertExperience appends an episode.
func (s *Store) InsertExperience(ctx context.Context, e store.Experience) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.experiences = append(s.experiences, e)
	return nil
}

// GetExperiences returns the most recent episodes, newest first.
func (s *Store) GetExperiences(ctx context.Context, limit int) ([]store.Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Experience, len(s.experiences))
	copy(out, s.experiences)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertCandidate inserts or updates candidate statistics, keyed by Key.
func (s *Store) UpsertCandidate(ctx context.Context, c store.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.Key] = c
	return nil
}

// GetCandidates returns all candidate statistics ordered by key.
func (s *Store) GetCandidates(ctx context.Context) ([]store.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.candidates))
	for key := range s.candidates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]store.Candidate, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.candidates[key])
	}
	return out, nil
}

// DeleteCandidate removes candidate statistics by key.
func (s *Store) DeleteCandidate(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.candidates, key)
	return nil
}

// InsertPromotion appends a promotion event.
func (s *Store) InsertPromotion(ctx context.Context, p store.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotions = append(s.promotions, p)
	return nil
}

// GetPromotions returns all promotion events in order of occurrence.
func (s *Store) GetPromotions(ctx context.Context) ([]store.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Promotion, len(s.promotions))
	copy(out, s.promotions)
	return out, nil
}
