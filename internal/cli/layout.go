package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// layoutCommand creates the layout command for positioning a diagram snapshot.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   engineFlags
		output  string
		strict  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Compute node positions for a diagram snapshot",
		Long: `Compute node positions for a diagram snapshot.

The layout command reads a diagram.json file holding "nodes" and "edges",
lays it out with the configured engine, and writes the snapshot back with
positions, attachment sides and container sizes filled in.

If the engine fails, no output file is written and the command exits non-zero.
With --strict, the snapshot is validated first and rejected when node ids
repeat, parents are missing, or edges point at unknown nodes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, flags, strict, timeout)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&strict, "strict", false, "validate the snapshot before laying it out")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "layout deadline (default: engine.timeout from config)")

	return cmd
}

// runLayout loads the diagram, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags engineFlags, strict bool, timeout time.Duration) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.Engine.Timeout.Duration = timeout
	}

	d, err := diagram.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	if strict {
		if err := diagram.Validate(d.Nodes, d.Edges); err != nil {
			return fmt.Errorf("validate %s: %w", input, err)
		}
	}

	l, closeCache, err := c.newLayouter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer closeCache()

	if cfg.Engine.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Engine.Timeout.Duration)
		defer cancel()
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", l.Engine().Name()))
	spinner.Start()

	nodes, err := l.Try(ctx, cfg.Layout, d.Nodes, d.Edges)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("layout %s: %w", input, err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d nodes", len(nodes)))

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutputPath(input)
	}
	if err := diagram.WriteFile(&diagram.Diagram{Nodes: nodes, Edges: d.Edges}, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(nodes), len(d.Edges), cacheHit(l.Engine()))
	printNewline()
	printNextStep("Check", appName+" validate "+outputPath)

	return nil
}

// defaultOutputPath replaces the input's extension with .layout.json.
func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// cacheHit reports whether the last layout was served from the cache.
func cacheHit(e layout.Engine) bool {
	ce, ok := e.(*layout.CachedEngine)
	return ok && ce.Stats().Hits > 0
}
