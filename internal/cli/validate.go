package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
)

// validateCommand creates the validate command for checking a diagram snapshot.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [diagram.json]",
		Short: "Check a diagram snapshot for layout problems",
		Long: `Check a diagram snapshot for layout problems.

Reports invalid or repeated node ids, parents that do not exist, nodes that
contain themselves, and edges whose source or target is unknown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load diagram %s: %w", args[0], err)
			}

			if err := diagram.Validate(d.Nodes, d.Edges); err != nil {
				problems := validationProblems(err)
				printError("%s has %d problem(s)", args[0], len(problems))
				for _, p := range problems {
					printDetail("%s", p)
				}
				return err
			}

			printSuccess("%s is valid", args[0])
			printDetail("%d nodes, %d edges", len(d.Nodes), len(d.Edges))
			return nil
		},
	}
}

// validationProblems lists the individual messages inside a joined error.
func validationProblems(err error) []string {
	var e *ferrors.Error
	if errors.As(err, &e) {
		if joined, ok := e.Cause.(interface{ Unwrap() []error }); ok {
			var out []string
			for _, inner := range joined.Unwrap() {
				out = append(out, ferrors.UserMessage(inner))
			}
			return out
		}
	}
	return []string{ferrors.UserMessage(err)}
}
