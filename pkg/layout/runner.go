// Package layout runs the external elkjson layout engine. The renderer
// consumes laid-out documents; this package is how un-laid-out ones get
// their coordinates.
package layout

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/elkdraw/elkdraw/pkg/elk"
	"github.com/elkdraw/elkdraw/pkg/errors"
)

// Engine defaults. The binary is resolved through PATH unless overridden.
const (
	DefaultBinary   = "elkjson"
	DefaultProvider = "LayeredLayoutProvider"
	DefaultPackage  = "layered"
	DefaultTimeout  = 30 * time.Second
)

// Runner executes the elkjson CLI. The zero value is not usable; construct
// with NewRunner.
type Runner struct {
	bin      string
	provider string
	pkg      string
	timeout  time.Duration
	pretty   bool
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithBinary points the runner at a specific elkjson executable.
func WithBinary(path string) RunnerOption {
	return func(r *Runner) {
		if path != "" {
			r.bin = path
		}
	}
}

// WithProvider selects the layout provider class passed to the engine.
func WithProvider(provider string) RunnerOption {
	return func(r *Runner) {
		if provider != "" {
			r.provider = provider
		}
	}
}

// WithPackage selects the layout algorithm package passed to the engine.
func WithPackage(pkg string) RunnerOption {
	return func(r *Runner) {
		if pkg != "" {
			r.pkg = pkg
		}
	}
}

// WithTimeout bounds a single engine invocation.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithPrettyJSON asks the engine for indented output files.
func WithPrettyJSON(pretty bool) RunnerOption {
	return func(r *Runner) { r.pretty = pretty }
}

// NewRunner builds a Runner with engine defaults applied.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		bin:      DefaultBinary,
		provider: DefaultProvider,
		pkg:      DefaultPackage,
		timeout:  DefaultTimeout,
		pretty:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultOutputPath derives the conventional laid-out-document path for an
// input file: its extension replaced with ".layout.json".
func DefaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".layout.json"
}

// LayoutFile runs the engine on inputPath and writes the laid-out document
// to outputPath. An empty outputPath derives "<input>.layout.json" next to
// the input. Returns the output path actually written.
func (r *Runner) LayoutFile(ctx context.Context, inputPath, outputPath string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "layout input %s", inputPath)
	}
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}

	bin, err := exec.LookPath(r.bin)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err,
			"layout engine %q not found (install elkjson or pass --bin)", r.bin)
	}

	args := []string{"--input", inputPath, "--output", outputPath}
	if r.pretty {
		args = append(args, "--pretty-json")
	}
	if r.provider != "" {
		args = append(args, "--layout-provider", r.provider)
	}
	if r.pkg != "" {
		args = append(args, "--layout-package", r.pkg)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Wrap(errors.ErrCodeTimeout, ctx.Err(),
				"layout engine timed out after %s", r.timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.New(errors.ErrCodeLayoutFailed, "layout engine failed: %s", msg)
	}
	return outputPath, nil
}

// LayoutBytes runs the engine over an in-memory document, satisfying the
// engine's file-based interface with a temporary directory.
func (r *Runner) LayoutBytes(ctx context.Context, input []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "elkdraw-layout-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create layout scratch dir")
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "graph.json")
	outPath := filepath.Join(dir, "graph.layout.json")
	if err := os.WriteFile(inPath, input, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write layout input")
	}

	if _, err := r.LayoutFile(ctx, inPath, outPath); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout engine wrote no output")
	}
	return out, nil
}

// LayoutGraph lays out an in-memory document and decodes the result.
func (r *Runner) LayoutGraph(ctx context.Context, input []byte) (*elk.Graph, error) {
	out, err := r.LayoutBytes(ctx, input)
	if err != nil {
		return nil, err
	}
	g, err := elk.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout engine emitted invalid JSON")
	}
	return g, nil
}
