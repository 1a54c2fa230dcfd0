package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "List the predicate vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		kb, err := openKnowledgeBase(context.Background())
		if err != nil {
			return err
		}
		defer kb.Close()

		vocab := kb.Vocabulary()
		for _, name := range vocab.ListNames() {
			sig, ok := vocab.GetSignature(name)
			if !ok {
				continue
			}
			if category != "" && string(sig.Category) != category {
				continue
			}
			fmt.Printf("%s(%s) [%s]", sig.Name, strings.Join(sig.ArgTypes, ", "), sig.Category)
			if len(sig.Components) > 0 {
				fmt.Printf(" = %s", strings.Join(sig.Components, " + "))
			}
			if sig.Description != "" {
				fmt.Printf("  %s", sig.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	vocabCmd.Flags().String("category", "", "only signatures of this category")
}
