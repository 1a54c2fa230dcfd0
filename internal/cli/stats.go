package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base and discovery statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := openKnowledgeBase(context.Background())
		if err != nil {
			return err
		}
		defer kb.Close()

		stats := kb.Statistics()
		fmt.Printf("Facts:                 %d\n", len(kb.Facts().List()))
		fmt.Printf("Vocabulary size:       %d\n", kb.Vocabulary().Size())
		fmt.Printf("Discovery patterns:    %d\n", stats.TotalPatterns)
		fmt.Printf("Active candidates:     %d\n", stats.ActiveCandidates)
		fmt.Printf("Candidates created:    %d\n", stats.CandidatesCreated)
		fmt.Printf("Compositions promoted: %d\n", stats.CompositionsPromoted)
		fmt.Printf("Promotions on record:  %d\n", len(kb.Promotions()))
		return nil
	},
}
