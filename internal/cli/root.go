package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Typically
// called by the main package with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the elkdraw CLI against a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the elkdraw CLI and returns an error if any command
// fails. Cancelling ctx aborts in-flight work (layout engine runs, icon
// fetches).
//
// The function sets up the root command with all subcommands (render,
// layout, cache), configures logging based on the --verbose flag, and
// executes the command tree. The logger is attached to the context and
// accessible to all commands via loggerFromContext.
func ExecuteContext(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "elkdraw",
		Short:        "elkdraw renders laid-out ELK JSON graphs as SVG",
		Long:         `elkdraw converts ELK JSON graph documents into SVG drawings: nested nodes, ports with side-aware labels, routed edges with type-specific markers, and optional remote icons. An external elkjson engine computes coordinates; elkdraw draws them.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("elkdraw %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
