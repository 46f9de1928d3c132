package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/config"
)

// configCommand creates the config command for printing the effective settings.
func (c *CLI) configCommand() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output merges the built-in defaults, the config file and any flags, and
can be saved as a starting point:

  flowlayout config > ~/.config/flowlayout/config.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
