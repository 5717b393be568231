package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/elkdraw/elkdraw/pkg/elk"
	"github.com/elkdraw/elkdraw/pkg/errors"
	"github.com/elkdraw/elkdraw/pkg/layout"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output     string // output path; default <input stem>.layout.json
	bin        string // elkjson binary override
	provider   string // layout provider class
	pkg        string // layout algorithm package
	timeout    int    // engine timeout in seconds
	enrich     bool   // fill missing ids/sizes/options before layout
	configPath string // TOML config file
}

// newLayoutCmd creates the layout command, which runs the external elkjson
// engine to add coordinates to a raw graph document.
func newLayoutCmd() *cobra.Command {
	opts := layoutOpts{enrich: true}

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Run the external elkjson layout engine on a document",
		Long: `Layout runs the elkjson engine to compute coordinates for a raw ELK JSON
document. By default the document is first enriched: missing ids, node and
port sizes, label boxes, and root layout options are filled in so the engine
always has complete input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyLayoutConfig(cmd, &opts)
			return runLayout(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.layout.json)")
	cmd.Flags().StringVar(&opts.bin, "bin", "", "path to the elkjson binary (default: from PATH)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "layout provider class (default "+layout.DefaultProvider+")")
	cmd.Flags().StringVar(&opts.pkg, "package", "", "layout algorithm package (default "+layout.DefaultPackage+")")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 0, "engine timeout in seconds")
	cmd.Flags().BoolVar(&opts.enrich, "enrich", opts.enrich, "fill missing ids, sizes, and options before layout")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file (default $XDG_CONFIG_HOME/elkdraw/config.toml)")

	return cmd
}

func applyLayoutConfig(cmd *cobra.Command, opts *layoutOpts) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return
	}
	flags := cmd.Flags()
	if !flags.Changed("bin") && cfg.Layout.Bin != "" {
		opts.bin = cfg.Layout.Bin
	}
	if !flags.Changed("provider") && cfg.Layout.Provider != "" {
		opts.provider = cfg.Layout.Provider
	}
	if !flags.Changed("package") && cfg.Layout.Package != "" {
		opts.pkg = cfg.Layout.Package
	}
	if !flags.Changed("timeout") && cfg.Layout.TimeoutSeconds > 0 {
		opts.timeout = cfg.Layout.TimeoutSeconds
	}
}

func runLayout(ctx context.Context, input string, opts *layoutOpts) error {
	logger := loggerFromContext(ctx)

	if _, err := loadConfig(opts.configPath); err != nil {
		return err
	}

	var ropts []layout.RunnerOption
	if opts.bin != "" {
		ropts = append(ropts, layout.WithBinary(opts.bin))
	}
	if opts.provider != "" {
		ropts = append(ropts, layout.WithProvider(opts.provider))
	}
	if opts.pkg != "" {
		ropts = append(ropts, layout.WithPackage(opts.pkg))
	}
	if opts.timeout > 0 {
		ropts = append(ropts, layout.WithTimeout(time.Duration(opts.timeout)*time.Second))
	}
	runner := layout.NewRunner(ropts...)

	track := newProgress(logger)
	outPath := opts.output

	if opts.enrich {
		doc, err := elk.DecodeFile(input)
		if err != nil {
			return err
		}
		if err := elk.Enrich(doc); err != nil {
			return err
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode enriched document")
		}
		logger.Debugf("Enriched document: %d bytes", len(data))

		out, err := runner.LayoutBytes(ctx, data)
		if err != nil {
			return err
		}
		if outPath == "" {
			outPath = layout.DefaultOutputPath(input)
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return err
		}
	} else {
		var err error
		if outPath, err = runner.LayoutFile(ctx, input, outPath); err != nil {
			return err
		}
	}

	track.done(fmt.Sprintf("Laid out %s", input))
	printSuccess("Generated %s", outPath)
	printFile(outPath)
	return nil
}
