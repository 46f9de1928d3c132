package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/layout/engine/graphviz"
)

// dotCommand creates the dot command for inspecting the graphviz request.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		flags  engineFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "dot [diagram.json]",
		Short: "Print the graphviz DOT request for a diagram snapshot",
		Long: `Print the graphviz DOT request for a diagram snapshot.

The output is exactly what the graphviz engine hands to dot, so it can be
rendered directly to debug a layout:

  flowlayout dot diagram.json | dot -Tsvg > diagram.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load diagram %s: %w", args[0], err)
			}

			req, _ := layout.Build(d.Nodes, d.Edges, nil, cfg.Layout)
			src := graphviz.ToDOT(req, graphviz.Options{
				NodeSep: cfg.Engine.NodeSpacing,
				RankSep: cfg.Engine.LayerSpacing,
			})

			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), src)
				return err
			}
			if err := os.WriteFile(output, []byte(src), 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("DOT written")
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
