package svg

import (
	"io"
	"strings"
)

// Writer serializes an element tree. The zero value produces compact
// single-line output; set Pretty for indented output.
type Writer struct {
	Pretty bool
	Indent string // indent unit for pretty output; defaults to two spaces
}

// Marshal serializes root to a byte slice. Pretty output ends with a
// trailing newline, compact output does not.
func (w Writer) Marshal(root *Element) []byte {
	var sb strings.Builder
	w.write(&sb, root, 0)
	if w.Pretty {
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// Write serializes root to out.
func (w Writer) Write(out io.Writer, root *Element) error {
	_, err := out.Write(w.Marshal(root))
	return err
}

func (w Writer) indent() string {
	if w.Indent == "" {
		return "  "
	}
	return w.Indent
}

func (w Writer) write(sb *strings.Builder, e *Element, level int) {
	sb.WriteString("<")
	sb.WriteString(e.Name)
	for _, a := range e.attrs {
		sb.WriteString(" ")
		sb.WriteString(a.Key)
		sb.WriteString("=\"")
		sb.WriteString(escapeAttr(a.Value))
		sb.WriteString("\"")
	}

	if len(e.children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteString(">")

	if !w.Pretty {
		for _, child := range e.children {
			w.writeNode(sb, child, 0)
		}
		sb.WriteString("</")
		sb.WriteString(e.Name)
		sb.WriteString(">")
		return
	}

	// <style> text is reformatted so each CSS rule line sits one level
	// deeper than the element; everything else inlines text-only content.
	if e.Name == "style" {
		w.writeStyleText(sb, e, level)
		return
	}
	if textOnly(e.children) {
		for _, child := range e.children {
			w.writeNode(sb, child, level+1)
		}
		sb.WriteString("</")
		sb.WriteString(e.Name)
		sb.WriteString(">")
		return
	}

	unit := w.indent()
	for _, child := range e.children {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(unit, level+1))
		w.writeNode(sb, child, level+1)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(unit, level))
	sb.WriteString("</")
	sb.WriteString(e.Name)
	sb.WriteString(">")
}

func (w Writer) writeNode(sb *strings.Builder, n Node, level int) {
	switch v := n.(type) {
	case *Element:
		w.write(sb, v, level)
	case Raw:
		sb.WriteString(string(v))
	case Text:
		sb.WriteString(escapeText(string(v)))
	}
}

// writeStyleText emits the element's text content with each non-empty line
// prefixed by one extra indent level, the closing tag aligned with the
// opening one.
func (w Writer) writeStyleText(sb *strings.Builder, e *Element, level int) {
	var css strings.Builder
	for _, child := range e.children {
		if t, ok := child.(Text); ok {
			css.WriteString(string(t))
		}
	}

	unit := w.indent()
	childPrefix := strings.Repeat(unit, level+1)
	for _, line := range strings.Split(strings.TrimSpace(css.String()), "\n") {
		sb.WriteString("\n")
		if line = strings.TrimSpace(line); line != "" {
			sb.WriteString(childPrefix)
			sb.WriteString(escapeText(line))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(unit, level))
	sb.WriteString("</")
	sb.WriteString(e.Name)
	sb.WriteString(">")
}

func textOnly(nodes []Node) bool {
	for _, n := range nodes {
		if _, ok := n.(Text); !ok {
			return false
		}
	}
	return true
}
