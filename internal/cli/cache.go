package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout result cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/flowlayout/config.toml)")

	cmd.AddCommand(c.cacheClearCommand(&configPath))
	cmd.AddCommand(c.cachePathCommand(&configPath))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheRedis {
				printWarning("Redis entries expire after %s; nothing to clear locally", cfg.Cache.TTL)
				return nil
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			defer fc.Close()

			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
