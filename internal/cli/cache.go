package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/elkdraw/elkdraw/pkg/icons"
)

// newCacheCmd creates the icon cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent icon cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached icon documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := icons.DefaultCacheDir()
			if !ok {
				printInfo("Icon caching is disabled")
				return nil
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil // skip unreadable entries, keep walking
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached icons", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the icon cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := icons.DefaultCacheDir()
			if !ok {
				printInfo("Icon caching is disabled")
				return nil
			}
			fmt.Println(dir)
			return nil
		},
	}
}
