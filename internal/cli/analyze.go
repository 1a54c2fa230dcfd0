package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/cognicore/koncept/pkg/koncept/composition"
	"github.com/cognicore/koncept/pkg/koncept/pattern"
	"github.com/cognicore/koncept/pkg/koncept/predicate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// episodeFile is the YAML shape accepted by `koncept analyze`.
type episodeFile struct {
	Episodes []episodeConfig `yaml:"episodes"`
}

type episodeConfig struct {
	Predicates []string `yaml:"predicates"`
	Actions    []string `yaml:"actions"`
	Outcome    string   `yaml:"outcome"`
	Success    bool     `yaml:"success"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [episodes.yaml]",
	Short: "Run composition discovery over a batch of recorded episodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read episodes: %w", err)
		}
		var file episodeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse episodes: %w", err)
		}

		experiences := make([]composition.Experience, 0, len(file.Episodes))
		for i, ep := range file.Episodes {
			set := predicate.NewSet()
			for _, raw := range ep.Predicates {
				p, err := parseFact(raw)
				if err != nil {
					return fmt.Errorf("episode %d: %w", i+1, err)
				}
				set.Add(p)
			}
			experiences = append(experiences, composition.NewExperience(set, ep.Actions, ep.Outcome, ep.Success))
		}

		ctx := context.Background()
		kb, err := openKnowledgeBase(ctx)
		if err != nil {
			return err
		}
		defer kb.Close()

		promotedBefore := len(kb.Promotions())
		if err := kb.Learn(ctx, experiences); err != nil {
			return err
		}

		promotions := kb.Promotions()
		fmt.Printf("Analyzed %d episodes.\n", len(experiences))
		for _, p := range promotions[promotedBefore:] {
			fmt.Printf("Promoted %s (support %d, confidence %.2f, utility %.2f)\n",
				p.Signature.Name, p.Support, p.Confidence, p.Utility)
			fmt.Printf("  definition: %s\n", p.Definition)
		}

		stats := kb.Statistics()
		fmt.Printf("Active candidates: %d\n", stats.ActiveCandidates)
		keys := make([]string, 0, len(stats.Candidates))
		for key := range stats.Candidates {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			c := stats.Candidates[key]
			fmt.Printf("  %s: support %d, confidence %.2f, utility %.2f\n",
				key, c.Support, c.Confidence, c.Utility)
		}
		return nil
	},
}

// parseFact parses a grounded fact literal such as near(robot, door).
func parseFact(raw string) (predicate.Predicate, error) {
	tpl, err := pattern.ParseLiteral(raw)
	if err != nil {
		return predicate.Predicate{}, err
	}
	if tpl.Negated {
		return predicate.Predicate{}, fmt.Errorf("fact %q must not be negated", raw)
	}
	p := tpl.Predicate()
	if !p.IsGrounded() {
		return predicate.Predicate{}, fmt.Errorf("fact %q has unbound variables", raw)
	}
	return p, nil
}
