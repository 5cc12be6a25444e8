package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/combviz/pkg/cache"
	"github.com/matzehuels/combviz/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "get cache dir")
			}

			fc := cache.OpenFileCache(dir)
			count, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "clear cache")
			}
			if count == 0 {
				printInfo(c.Err, "Cache is empty")
				return nil
			}

			printSuccess(c.Err, "Cleared %d cached entries", count)
			printDetail(c.Err, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "get cache dir")
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}
