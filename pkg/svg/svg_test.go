package svg

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetPreservesInsertionOrder(t *testing.T) {
	e := NewElement("rect")
	e.SetNum("x", 1).SetNum("y", 2).Set("fill", "red")
	e.SetNum("x", 9) // replace keeps position

	got := string(Writer{}.Marshal(e))
	want := `<rect x="9" y="2" fill="red"/>`
	if got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestSetEmptyValueRemovesAttribute(t *testing.T) {
	e := NewElement("polyline").Set("marker-end", "url(#arrow)")
	e.Set("marker-end", "")

	if got := string(Writer{}.Marshal(e)); got != "<polyline/>" {
		t.Errorf("Marshal = %s, want <polyline/>", got)
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{196, "196"},
		{56, "56"},
		{34.5, "34.5"},
		{0, "0"},
		{-2.25, "-2.25"},
	}
	for _, tt := range tests {
		if got := FormatNum(tt.in); got != tt.want {
			t.Errorf("FormatNum(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscaping(t *testing.T) {
	e := NewElement("text").Set("data-label", `a<b "quoted" & more`)
	e.Append(Text("x < y & z"))

	got := string(Writer{}.Marshal(e))
	want := `<text data-label="a&lt;b &quot;quoted&quot; &amp; more">x &lt; y &amp; z</text>`
	if got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestRawPassesThroughVerbatim(t *testing.T) {
	e := NewElement("g").Append(Raw(`<path d="M0 0h24v24H0z"/>`))

	got := string(Writer{}.Marshal(e))
	if !strings.Contains(got, `<path d="M0 0h24v24H0z"/>`) {
		t.Errorf("raw fragment mangled: %s", got)
	}
}

func TestPrettyIndentsNestedElements(t *testing.T) {
	root := NewElement("svg").SetNum("width", 10)
	g := NewElement("g").Set("id", "nodes")
	g.Append(NewElement("rect").SetNum("x", 0))
	root.Append(g)

	got := string(Writer{Pretty: true}.Marshal(root))
	want := "<svg width=\"10\">\n" +
		"  <g id=\"nodes\">\n" +
		"    <rect x=\"0\"/>\n" +
		"  </g>\n" +
		"</svg>\n"
	if got != want {
		t.Errorf("pretty output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyKeepsTextInline(t *testing.T) {
	root := NewElement("svg")
	root.Append(NewElement("text").Append(Text("node-1")))

	got := string(Writer{Pretty: true}.Marshal(root))
	if !strings.Contains(got, "<text>node-1</text>") {
		t.Errorf("text content should stay inline: %s", got)
	}
}

func TestPrettyReindentsStyleRules(t *testing.T) {
	root := NewElement("svg")
	style := NewElement("style")
	style.Append(Text(".node { fill: blue; }\n.edge { stroke: red; }"))
	root.Append(style)

	got := string(Writer{Pretty: true}.Marshal(root))
	want := "<svg>\n" +
		"  <style>\n" +
		"    .node { fill: blue; }\n" +
		"    .edge { stroke: red; }\n" +
		"  </style>\n" +
		"</svg>\n"
	if got != want {
		t.Errorf("style output:\n%s\nwant:\n%s", got, want)
	}
}

func TestCustomIndentUnit(t *testing.T) {
	root := NewElement("svg")
	root.Append(NewElement("g"))

	got := string(Writer{Pretty: true, Indent: "\t"}.Marshal(root))
	if !strings.Contains(got, "\n\t<g/>") {
		t.Errorf("tab indent not applied: %q", got)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	build := func() *Element {
		root := NewElement("svg").SetNum("width", 100).SetNum("height", 50)
		for _, id := range []string{"a", "b", "c"} {
			root.Append(NewElement("g").Set("id", id))
		}
		return root
	}
	w := Writer{Pretty: true}
	first := w.Marshal(build())
	second := w.Marshal(build())
	if !bytes.Equal(first, second) {
		t.Error("identical trees should serialize byte-identically")
	}
}
