// Package encode turns predicate sets into fixed-position numeric features.
// Positions come from the vocabulary's registration order, which is stable
// for the process lifetime, so downstream consumers can rely on a feature
// index meaning the same predicate across calls even as the vocabulary
// grows at the end.
package encode

import (
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Feature is one active predicate name in an encoded set.
type Feature struct {
	Index      int
	Name       string
	Confidence float64
}

// Encoder maps predicate sets onto the vocabulary's index space.
type Encoder struct {
	vocabulary *predicate.Vocabulary
}

// NewEncoder builds an encoder over the vocabulary.
func NewEncoder(vocabulary *predicate.Vocabulary) *Encoder {
	return &Encoder{vocabulary: vocabulary}
}

// Dimension is the current width of encoded vectors.
func (e *Encoder) Dimension() int {
	return e.vocabulary.Size()
}

// Features returns the active features of a set in index order. A predicate
// name appearing several times contributes one feature carrying its highest
// confidence; predicates whose name is not in the vocabulary are skipped.
func (e *Encoder) Features(set *predicate.Set) []Feature {
	best := make(map[int]Feature)
	for _, p := range set.List() {
		idx, ok := e.vocabulary.Index(p.Name)
		if !ok {
			continue
		}
		if f, seen := best[idx]; !seen || p.Confidence > f.Confidence {
			best[idx] = Feature{Index: idx, Name: p.Name, Confidence: p.Confidence}
		}
	}

	out := make([]Feature, 0, len(best))
	for i := 0; i < e.Dimension(); i++ {
		if f, ok := best[i]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Vector encodes a set as a dense confidence vector over the vocabulary.
func (e *Encoder) Vector(set *predicate.Set) []float64 {
	v := make([]float64, e.Dimension())
	for _, f := range e.Features(set) {
		v[f.Index] = f.Confidence
	}
	return v
}
