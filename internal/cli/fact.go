package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var assertCmd = &cobra.Command{
	Use:   "assert [fact]",
	Short: "Assert a grounded fact, e.g. 'near(robot, door)'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confidence, _ := cmd.Flags().GetFloat64("confidence")

		p, err := parseFact(args[0])
		if err != nil {
			return err
		}
		p = p.WithConfidence(confidence)

		ctx := context.Background()
		kb, err := openKnowledgeBase(ctx)
		if err != nil {
			return err
		}
		defer kb.Close()

		if err := kb.Assert(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Asserted %s\n", p)
		return nil
	},
}

var retractCmd = &cobra.Command{
	Use:   "retract [fact]",
	Short: "Retract a fact by its literal form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parseFact(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		kb, err := openKnowledgeBase(ctx)
		if err != nil {
			return err
		}
		defer kb.Close()

		if err := kb.Retract(ctx, p.Key()); err != nil {
			return err
		}
		fmt.Printf("Retracted %s\n", p.Key())
		return nil
	},
}

func init() {
	assertCmd.Flags().Float64("confidence", 1.0, "confidence of the asserted fact")
}
