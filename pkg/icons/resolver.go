// Package icons resolves symbolic icon names (e.g. "mdi:router") to inline
// SVG glyph content plus intrinsic dimensions.
//
// Resolution is a pluggable capability: the renderer depends only on the
// [Resolver] interface, so tests inject stubs and offline runs disable
// icons entirely. The default implementation fetches from the Iconify API,
// memoizes per rendering pass, and optionally persists fetched documents
// in a local file cache.
package icons

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Glyph is resolved icon content: the markup inside the fetched document's
// root element, plus the intrinsic size used for aspect-correct scaling.
type Glyph struct {
	Inner  string
	Width  float64
	Height float64
}

// Resolver resolves a symbolic icon name. A nil Glyph with a nil error
// means the icon is unavailable; rendering proceeds without it.
// Implementations are consulted at most once per distinct name per
// rendering pass.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*Glyph, error)
}

// Func adapts a function to the Resolver interface. Handy for test stubs.
type Func func(ctx context.Context, name string) (*Glyph, error)

// Resolve calls f.
func (f Func) Resolve(ctx context.Context, name string) (*Glyph, error) {
	return f(ctx, name)
}

// ErrMalformed is returned by ParseGlyph for documents that do not parse
// or declare no usable intrinsic size.
var ErrMalformed = errors.New("malformed icon document")

// ParseGlyph extracts glyph content from an SVG document. Intrinsic size
// comes from the root viewBox when present, falling back to width/height
// attributes ("px" suffixes tolerated). Documents without a positive
// intrinsic size are rejected.
func ParseGlyph(text string) (*Glyph, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	var root xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, ErrMalformed
		}
		if se, ok := tok.(xml.StartElement); ok {
			root = se
			break
		}
	}

	w, h, ok := intrinsicSize(root.Attr)
	if !ok {
		return nil, ErrMalformed
	}

	inner, err := innerMarkup(dec, text)
	if err != nil {
		return nil, ErrMalformed
	}
	return &Glyph{Inner: inner, Width: w, Height: h}, nil
}

func intrinsicSize(attrs []xml.Attr) (float64, float64, bool) {
	attr := func(name string) string {
		for _, a := range attrs {
			if a.Name.Local == name {
				return a.Value
			}
		}
		return ""
	}

	if vb := attr("viewBox"); vb != "" {
		parts := strings.Fields(vb)
		if len(parts) == 4 {
			w, errW := strconv.ParseFloat(parts[2], 64)
			h, errH := strconv.ParseFloat(parts[3], 64)
			if errW == nil && errH == nil && w > 0 && h > 0 {
				return w, h, true
			}
		}
	}

	w, errW := strconv.ParseFloat(strings.TrimSuffix(attr("width"), "px"), 64)
	h, errH := strconv.ParseFloat(strings.TrimSuffix(attr("height"), "px"), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// innerMarkup returns the raw text between the root element's start tag
// (already consumed from dec) and its matching end tag.
func innerMarkup(dec *xml.Decoder, text string) (string, error) {
	start := dec.InputOffset()
	prev := start
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", ErrMalformed
		}
		if err != nil {
			return "", err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return strings.TrimSpace(text[start:prev]), nil
			}
			depth--
		}
		prev = dec.InputOffset()
	}
}
