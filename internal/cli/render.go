package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elkdraw/elkdraw/pkg/cache"
	"github.com/elkdraw/elkdraw/pkg/elk"
	"github.com/elkdraw/elkdraw/pkg/errors"
	"github.com/elkdraw/elkdraw/pkg/icons"
	"github.com/elkdraw/elkdraw/pkg/render"
	"github.com/elkdraw/elkdraw/pkg/svg"
)

const defaultPNGZoom = 2.0

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path, "-" for stdout
	format     string  // svg, png, or pdf
	themePath  string  // CSS file embedded instead of the bundled theme
	noTheme    bool    // disable stylesheet embedding
	padding    float64 // canvas padding
	fontSize   float64 // default label font size
	compact    bool    // single-line output instead of pretty-printed
	indent     string  // indent unit for pretty output
	noIcons    bool    // skip icon resolution entirely
	iconCache  string  // icon cache directory; "off" disables persistence
	configPath string  // TOML config file
	pngZoom    float64 // zoom factor for PNG export
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "pdf": true}

// newRenderCmd creates the render command: laid-out ELK JSON in, drawing out.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		format:  "svg",
		indent:  "  ",
		pngZoom: defaultPNGZoom,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a laid-out ELK JSON document to SVG, PNG, or PDF",
		Long: `Render converts a laid-out ELK JSON graph document into a drawing.
The input must already carry coordinates; run "elkdraw layout" first for
documents straight out of an editor. Pass "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if !validFormats[opts.format] {
				return errors.New(errors.ErrCodeInvalidInput,
					"invalid format %q (must be svg, png, or pdf)", opts.format)
			}
			applyConfig(cmd, &opts)
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file; default derives from the input name, "-" writes to stdout`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, pdf")
	cmd.Flags().StringVar(&opts.themePath, "theme", "", "CSS file to embed instead of the bundled theme")
	cmd.Flags().BoolVar(&opts.noTheme, "no-theme", false, "do not embed a stylesheet")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "padding around the drawing")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", render.DefaultFontSize, "default label font size")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "emit single-line output")
	cmd.Flags().StringVar(&opts.indent, "indent", opts.indent, "indent unit for pretty output")
	cmd.Flags().BoolVar(&opts.noIcons, "no-icons", false, "skip icon resolution")
	cmd.Flags().StringVar(&opts.iconCache, "icon-cache", "", `icon cache directory ("off" disables persistence)`)
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file (default $XDG_CONFIG_HOME/elkdraw/config.toml)")
	cmd.Flags().Float64Var(&opts.pngZoom, "png-zoom", opts.pngZoom, "zoom factor for PNG export")

	return cmd
}

// applyConfig merges config-file values under flags the user did not set.
// A config load failure for the default path is silently ignored; an
// explicit --config that fails surfaces in runRender via reload.
func applyConfig(cmd *cobra.Command, opts *renderOpts) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return
	}
	flags := cmd.Flags()
	if !flags.Changed("padding") && cfg.Padding != 0 {
		opts.padding = cfg.Padding
	}
	if !flags.Changed("font-size") && cfg.FontSize != 0 {
		opts.fontSize = cfg.FontSize
	}
	if !flags.Changed("theme") && cfg.Theme != "" {
		opts.themePath = cfg.Theme
	}
	if !flags.Changed("no-theme") && cfg.NoTheme {
		opts.noTheme = true
	}
	if !flags.Changed("compact") && cfg.Compact {
		opts.compact = true
	}
	if !flags.Changed("indent") && cfg.Indent != "" {
		opts.indent = cfg.Indent
	}
	if !flags.Changed("no-icons") && cfg.NoIcons {
		opts.noIcons = true
	}
	if !flags.Changed("icon-cache") && cfg.IconCache != "" {
		opts.iconCache = cfg.IconCache
	}
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	// Surface explicit config errors before doing any work.
	if _, err := loadConfig(opts.configPath); err != nil {
		return err
	}

	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	ropts, err := renderOptions(ctx, opts)
	if err != nil {
		return err
	}

	track := newProgress(logger)
	r, err := render.New(doc, ropts...)
	if err != nil {
		return err
	}
	root, err := r.Render(ctx)
	if err != nil {
		return err
	}

	writer := svg.Writer{Pretty: !opts.compact, Indent: opts.indent}
	data := writer.Marshal(root)
	logger.Debugf("Rendered SVG: %d bytes", len(data))

	switch opts.format {
	case "png":
		if data, err = render.ToPNG(ctx, data, opts.pngZoom); err != nil {
			return err
		}
	case "pdf":
		if data, err = render.ToPDF(ctx, data); err != nil {
			return err
		}
	}

	outPath := outputPath(input, opts)
	if outPath == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		return nil
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	track.done(fmt.Sprintf("Rendered %s", input))
	m := render.Collect(doc)
	printSuccess("Generated %s", filepath.Base(outPath))
	printStats(len(m.Nodes), len(m.Edges), len(m.Labels))
	printFile(outPath)
	return nil
}

// readDocument decodes the input document from a file or stdin ("-").
func readDocument(input string) (*elk.Graph, error) {
	if input == "-" {
		return elk.Decode(os.Stdin)
	}
	return elk.DecodeFile(input)
}

// renderOptions translates command flags into renderer options.
func renderOptions(ctx context.Context, opts *renderOpts) ([]render.Option, error) {
	var ropts []render.Option
	if opts.padding != 0 {
		ropts = append(ropts, render.WithPadding(opts.padding))
	}
	if opts.fontSize != render.DefaultFontSize {
		ropts = append(ropts, render.WithFontSize(opts.fontSize))
	}

	if opts.noTheme {
		ropts = append(ropts, render.WithoutTheme())
	} else if opts.themePath != "" {
		css, err := readTheme(opts.themePath)
		if err != nil {
			return nil, err
		}
		ropts = append(ropts, render.WithThemeCSS(css))
	}

	if !opts.noIcons {
		ropts = append(ropts, render.WithIconResolver(newIconResolver(ctx, opts.iconCache)))
	}
	return ropts, nil
}

// readTheme loads a stylesheet override. Preprocessor sources are rejected:
// only plain CSS can be embedded in SVG.
func readTheme(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scss", ".sass":
		return "", errors.New(errors.ErrCodeInvalidTheme,
			"%s is a Sass source; compile it to CSS first (e.g. with `sass %s theme.css`)", path, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "theme file %s", path)
	}
	return string(data), nil
}

// newIconResolver builds the iconify-backed resolver with a persistent
// file cache when one is available. Cache setup failures degrade to
// in-memory-only resolution.
func newIconResolver(ctx context.Context, cacheDir string) icons.Resolver {
	logger := loggerFromContext(ctx)

	var store cache.Cache = cache.NewNullCache()
	dir, persist := iconCacheDir(cacheDir)
	if persist {
		fc, err := cache.NewFileCache(dir, ".svg")
		if err != nil {
			logger.Debugf("Icon cache unavailable at %s: %v", dir, err)
		} else {
			store = fc
		}
	}
	return icons.NewHTTPResolver(icons.WithStore(store))
}

// iconCacheDir resolves the icon cache directory from the flag/config
// value, falling back to the platform default. "off" disables persistence.
func iconCacheDir(flagValue string) (string, bool) {
	switch flagValue {
	case "off":
		return "", false
	case "":
		return icons.DefaultCacheDir()
	}
	return flagValue, true
}

// outputPath derives the output file location: explicit -o wins, stdin
// input defaults to stdout, files default to the input stem plus the
// format's extension.
func outputPath(input string, opts *renderOpts) string {
	if opts.output != "" {
		return opts.output
	}
	if input == "-" {
		return "-"
	}
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return stem + "." + opts.format
}
