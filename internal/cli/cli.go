// Package cli implements the flowlayout command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/config"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "flowlayout"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flowlayout positions nested node/edge diagrams",
		Long: `Flowlayout computes positions for the nodes of a flow diagram snapshot.

Nodes may be nested inside container nodes. Each layout turns the snapshot into
a layered graph request, runs a layout engine on it, and writes the positions,
attachment sides and container sizes back onto the nodes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Layouter Factory
// =============================================================================

// engineFlags are the settings every layout-producing command can override.
type engineFlags struct {
	configPath string
	engine     string
	direction  string
	padding    string
	noCache    bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/flowlayout/config.toml)")
	cmd.Flags().StringVar(&f.engine, "engine", "", "layout engine: graphviz (default), layered, elk")
	cmd.Flags().StringVar(&f.direction, "direction", "", "layer direction: horizontal (default), vertical")
	cmd.Flags().StringVar(&f.padding, "padding", "", "container padding as top,right,bottom,left or a single value")
}

// load reads the config file and applies the flag overrides.
func (f *engineFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.engine != "" {
		cfg.Engine.Name = f.engine
	}
	if f.direction != "" {
		horizontal, err := layout.ParseDirection(f.direction)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Layout.Horizontal = horizontal
	}
	if f.padding != "" {
		pad, err := layout.ParsePadding(f.padding)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Layout.Padding = pad
	}
	if f.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	return cfg, cfg.Validate()
}

// newLayouter builds a Layouter for cfg. The returned function releases the
// engine's cache.
func (c *CLI) newLayouter(ctx context.Context, cfg config.Config) (*layout.Layouter, func() error, error) {
	logger := loggerFromContext(ctx)
	eng, closeFn, err := config.NewCachedEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	l := layout.New(eng, layout.WithConfig(cfg.Layout), layout.WithLogger(logger))
	return l, closeFn, nil
}
