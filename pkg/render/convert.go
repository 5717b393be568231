package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/elkdraw/elkdraw/pkg/errors"
)

// ToPDF converts rendered SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svgData []byte) ([]byte, error) {
	return rsvgConvert(ctx, svgData, "pdf")
}

// ToPNG converts rendered SVG bytes to PNG at the given zoom factor.
// Zoom 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svgData []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	return rsvgConvert(ctx, svgData, "png", "-z", strconv.FormatFloat(zoom, 'f', 2, 64))
}

func rsvgConvert(ctx context.Context, svgData []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svgData)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.New(errors.ErrCodeInternal,
			"rsvg-convert: %v: %s", err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
