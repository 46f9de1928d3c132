package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/internal/cli"
	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]...); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 when the input or configuration was rejected and 1 for
// every other failure.
func exitCode(err error) int {
	if ferrors.IsInputError(err) {
		return 2
	}
	return 1
}

func run(ctx context.Context, args ...string) error {
	var verbose bool

	// Logs go to stderr so layout and dot output can be piped.
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Apply the log level before the root's own pre-run attaches the logger.
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
