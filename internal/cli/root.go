// Package cli implements the koncept command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/cognicore/koncept/pkg/koncept"
	"github.com/cognicore/koncept/pkg/koncept/config"
	"github.com/cognicore/koncept/pkg/koncept/store"
	"github.com/cognicore/koncept/pkg/koncept/store/sqlite"
	"github.com/spf13/cobra"
)

var (
	vocabularyPath string
	patternsPath   string
	enginePath     string
	storePath      string

	rootCmd = &cobra.Command{
		Use:   "koncept",
		Short: "Symbolic knowledge base with composition discovery",
		Long: `koncept maintains a store of grounded symbolic facts, derives new facts
by forward chaining, answers logical queries, and discovers composite
predicates from batches of experience.

Run discovery over recorded episodes:
  koncept analyze episodes.yaml --store kb.db

Then inspect what it learned:
  koncept vocab --category composite --store kb.db
  koncept query "accessible_object(box1)" --store kb.db`,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vocabularyPath, "vocabulary", "", "vocabulary YAML file")
	rootCmd.PersistentFlags().StringVar(&patternsPath, "patterns", "", "discovery patterns YAML file")
	rootCmd.PersistentFlags().StringVar(&enginePath, "engine", "", "engine settings YAML file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "sqlite store path (overrides engine settings)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(assertCmd)
	rootCmd.AddCommand(retractCmd)
}

// openKnowledgeBase loads configuration, opens the store when one is
// configured, and restores persisted state.
func openKnowledgeBase(ctx context.Context) (*koncept.Koncept, error) {
	loader := &config.Loader{
		VocabularyPath: vocabularyPath,
		PatternsPath:   patternsPath,
		EnginePath:     enginePath,
	}
	comp, err := loader.Load()
	if err != nil {
		return nil, err
	}

	path := storePath
	if path == "" {
		path = comp.Engine.StorePath
	}
	var st store.Store
	if path != "" {
		st, err = sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", path, err)
		}
	}

	kb, err := koncept.New(koncept.Options{
		Store:         st,
		Vocabulary:    comp.Vocabulary,
		Patterns:      comp.Patterns,
		MaxDepth:      comp.Engine.MaxDepth,
		MinUtility:    comp.Engine.MinUtility,
		MaxIterations: comp.Engine.MaxIterations,
		MatcherLimit:  comp.Engine.MatcherLimit,
	})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, err
	}
	if err := kb.Restore(ctx); err != nil {
		kb.Close()
		return nil, err
	}
	return kb, nil
}
