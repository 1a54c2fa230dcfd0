// Package config loads vocabulary, pattern, and engine configuration from
// YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/koncept/pkg/koncept/internalerr"
)

// Vocabulary is the signature file layout.
type Vocabulary struct {
	Signatures []SignatureConfig `yaml:"signatures"`
}

// SignatureConfig is one declared predicate signature.
type SignatureConfig struct {
	Name        string   `yaml:"name"`
	ArgTypes    []string `yaml:"arg_types"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Components  []string `yaml:"components"`
}

// LoadVocabulary loads signature declarations from a YAML file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// Patterns is the composition-pattern file layout.
type Patterns struct {
	Patterns []PatternConfig `yaml:"patterns"`
}

// PatternConfig is one declared composition pattern.
type PatternConfig struct {
	Name                string          `yaml:"name"`
	Type                string          `yaml:"type"`
	Components          []string        `yaml:"components"`
	Result              SignatureConfig `yaml:"result"`
	ConfidenceThreshold float64         `yaml:"confidence_threshold"`
	MinimumSupport      int             `yaml:"minimum_support"`
	Description         string          `yaml:"description"`
}

// LoadPatterns loads composition patterns from a YAML file.
func LoadPatterns(path string) (*Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Patterns
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Engine is the engine and store settings file layout.
type Engine struct {
	MaxDepth      int     `yaml:"max_depth"`
	MinUtility    float64 `yaml:"min_utility"`
	MaxIterations int     `yaml:"max_iterations"`
	MatcherLimit  int     `yaml:"matcher_limit"`
	StorePath     string  `yaml:"store_path"`
}

// LoadEngine loads engine settings from a YAML file. Missing fields keep
// their zero values; the facade applies defaults.
func LoadEngine(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var e Engine
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, err
	}

	if e.MaxDepth < 0 || e.MinUtility < 0 || e.MaxIterations < 0 || e.MatcherLimit < 0 {
		return nil, fmt.Errorf("engine settings must not be negative: %w", internalerr.ErrInvalidConfig)
	}

	return &e, nil
}
