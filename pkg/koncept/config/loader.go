package config

import (
	"fmt"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
	"github.com/cognicore/koncept/pkg/koncept/pattern"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
)

// Loader reads all configuration files and constructs components.
type Loader struct {
	VocabularyPath string
	PatternsPath   string
	EnginePath     string
}

// Components holds all loaded configuration components.
type Components struct {
	Vocabulary *predicate.Vocabulary
	Patterns   []pattern.Pattern
	Engine     Engine
}

var categories = map[string]predicate.Category{
	"attribute":  predicate.Attribute,
	"spatial":    predicate.Spatial,
	"temporal":   predicate.Temporal,
	"functional": predicate.Functional,
	"composite":  predicate.Composite,
}

// Load reads all configuration files and returns initialized components.
// Files left unset fall back to the built-in vocabulary and no extra
// patterns.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Vocabulary: predicate.NewVocabulary()}

	if l.VocabularyPath != "" {
		vocab, err := LoadVocabulary(l.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		for _, sc := range vocab.Signatures {
			sig, err := toSignature(sc)
			if err != nil {
				return nil, fmt.Errorf("load vocabulary: %w", err)
			}
			comp.Vocabulary.AddSignature(sig)
		}
	}

	if l.PatternsPath != "" {
		patterns, err := LoadPatterns(l.PatternsPath)
		if err != nil {
			return nil, fmt.Errorf("load patterns: %w", err)
		}
		for _, pc := range patterns.Patterns {
			p, err := toPattern(pc)
			if err != nil {
				return nil, fmt.Errorf("load patterns: %w", err)
			}
			comp.Patterns = append(comp.Patterns, p)
		}
	}

	if l.EnginePath != "" {
		engine, err := LoadEngine(l.EnginePath)
		if err != nil {
			return nil, fmt.Errorf("load engine settings: %w", err)
		}
		comp.Engine = *engine
	}

	return comp, nil
}

func toSignature(sc SignatureConfig) (predicate.Signature, error) {
	if sc.Name == "" {
		return predicate.Signature{}, fmt.Errorf("signature without a name: %w", internalerr.ErrInvalidConfig)
	}
	category, ok := categories[sc.Category]
	if !ok {
		return predicate.Signature{}, fmt.Errorf("signature %s: unknown category %q: %w", sc.Name, sc.Category, internalerr.ErrInvalidConfig)
	}
	return predicate.Signature{
		Name:        sc.Name,
		ArgTypes:    sc.ArgTypes,
		Category:    category,
		Description: sc.Description,
		Components:  sc.Components,
	}, nil
}

func toPattern(pc PatternConfig) (pattern.Pattern, error) {
	result, err := toSignature(pc.Result)
	if err != nil {
		return pattern.Pattern{}, fmt.Errorf("pattern %s: %w", pc.Name, err)
	}
	p, err := pattern.New(pc.Name, pattern.Type(pc.Type), pc.Components, result,
		pc.ConfidenceThreshold, pc.MinimumSupport, pc.Description)
	if err != nil {
		return pattern.Pattern{}, fmt.Errorf("pattern %s: %w", pc.Name, err)
	}
	return p, nil
}
