// Package svg builds SVG documents as an explicit element tree and
// serializes them deterministically.
//
// Rendering order matters for SVG (later elements paint over earlier ones),
// so both attributes and children keep strict insertion order. Serializing
// the same tree twice produces byte-identical output.
package svg

import (
	"strconv"
	"strings"
)

// Node is one item in the document tree: an [*Element], [Raw] markup, or
// escaped [Text].
type Node interface {
	isNode()
}

// Raw is a pre-rendered markup fragment inserted verbatim. Used for icon
// glyph content fetched from remote SVG documents.
type Raw string

func (Raw) isNode() {}

// Text is character data; it is XML-escaped on output.
type Text string

func (Text) isNode() {}

// Attr is a single name="value" attribute.
type Attr struct {
	Key   string
	Value string
}

// Element is an SVG element with ordered attributes and children.
type Element struct {
	Name     string
	attrs    []Attr
	children []Node
}

func (*Element) isNode() {}

// NewElement creates an element with the given tag name.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// Set adds or replaces an attribute, preserving first-set ordering.
// Setting an empty value removes the attribute.
func (e *Element) Set(key, value string) *Element {
	if value == "" {
		for i, a := range e.attrs {
			if a.Key == key {
				e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
				break
			}
		}
		return e
	}
	for i, a := range e.attrs {
		if a.Key == key {
			e.attrs[i].Value = value
			return e
		}
	}
	e.attrs = append(e.attrs, Attr{Key: key, Value: value})
	return e
}

// SetNum sets a numeric attribute using the shortest exact decimal form.
func (e *Element) SetNum(key string, value float64) *Element {
	return e.Set(key, FormatNum(value))
}

// Append adds child nodes in order.
func (e *Element) Append(nodes ...Node) *Element {
	e.children = append(e.children, nodes...)
	return e
}

// Len returns the number of direct children.
func (e *Element) Len() int { return len(e.children) }

// Attrs returns the attribute list in output order.
func (e *Element) Attrs() []Attr { return e.attrs }

// FormatNum renders a float the way coordinates appear in the output:
// integers without a decimal point, everything else in shortest exact form.
func FormatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// escapeText escapes character data for XML output.
func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// escapeAttr escapes an attribute value for XML output.
func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", "\"", "&quot;")
	return r.Replace(s)
}
