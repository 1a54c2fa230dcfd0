package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [expression]",
	Short: "Evaluate a logical query against the knowledge base",
	Long: `Evaluate a logical query against the saturated knowledge base.

Expressions combine fact literals with & | ! -> <-> and parentheses,
for example:

  koncept query "near(robot, door) & !locked(door)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		explain, _ := cmd.Flags().GetBool("explain")

		kb, err := openKnowledgeBase(context.Background())
		if err != nil {
			return err
		}
		defer kb.Close()

		if explain {
			steps, err := kb.Explain(args[0])
			if err != nil {
				return err
			}
			for _, step := range steps {
				fmt.Println(step)
			}
			return nil
		}

		ok, err := kb.Query(args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Println("true")
		} else {
			fmt.Println("false")
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().Bool("explain", false, "report per-literal support for the query")
}
