package elk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elkdraw/elkdraw/pkg/errors"
)

const sampleDoc = `{
	"id": "root",
	"width": 200,
	"height": 100,
	"children": [
		{
			"id": "n1", "x": 10, "y": 10, "width": 50, "height": 30,
			"labels": [{"text": "Node 1", "x": 5, "y": 5, "width": 40, "height": 10}],
			"ports": [{"id": "n1p", "x": -1, "y": 14, "width": 2, "height": 2}]
		},
		{"id": "n2", "x": 120, "y": 10, "width": 50, "height": 30}
	],
	"edges": [
		{"id": "e1", "sources": ["n1p"], "targets": ["n2"],
		 "labels": [{"text": "link", "x": 70, "y": 20}]}
	]
}`

func TestDecode(t *testing.T) {
	g, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if g.ID != "root" {
		t.Errorf("root id = %q, want root", g.ID)
	}
	if Deref(g.Width) != 200 || Deref(g.Height) != 100 {
		t.Errorf("root size = (%v,%v), want (200,100)", Deref(g.Width), Deref(g.Height))
	}
	if len(g.Children) != 2 || len(g.Edges) != 1 {
		t.Fatalf("children/edges = %d/%d, want 2/1", len(g.Children), len(g.Edges))
	}
	if got := g.Children[0].Ports[0].X; got != -1 {
		t.Errorf("port x = %v, want -1", got)
	}
	lbl := g.Children[0].Labels[0]
	if lbl.X == nil || *lbl.X != 5 {
		t.Errorf("label x = %v, want 5", lbl.X)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile error: %v", err)
	}
	if len(g.Children) != 2 {
		t.Errorf("children = %d, want 2", len(g.Children))
	}

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestValidateNamesOffendingEntity(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "node without id",
			doc:  `{"children": [{"id": "a"}, {"x": 1}]}`,
			want: "children[1]",
		},
		{
			name: "nested port without id",
			doc:  `{"children": [{"id": "a", "children": [{"id": "b", "ports": [{"x": 0}]}]}]}`,
			want: "children[0].children[0].ports[0]",
		},
		{
			name: "edge without id",
			doc:  `{"children": [{"id": "a", "edges": [{"sources": ["a"]}]}]}`,
			want: "children[0].edges[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decode(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			err = Validate(g)
			if !errors.Is(err, errors.ErrCodeMissingID) {
				t.Fatalf("err = %v, want MISSING_ID", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should name %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateAcceptsCompleteDocument(t *testing.T) {
	g, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(g); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestOptionPrecedence(t *testing.T) {
	o := Options{
		LayoutOptions: map[string]any{"key": "layout"},
		Properties:    map[string]any{"key": "properties", "only": "props"},
	}

	if v, _ := o.Option("key"); v != "layout" {
		t.Errorf("Option(key) = %v, want layout (layoutOptions wins)", v)
	}
	if v, _ := o.Option("only"); v != "props" {
		t.Errorf("Option(only) = %v, want props", v)
	}
	if _, ok := o.Option("absent"); ok {
		t.Error("Option(absent) should report missing")
	}
}

func TestFontSizeParsing(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want float64
		ok   bool
	}{
		{
			name: "qualified key, string value",
			opts: Options{LayoutOptions: map[string]any{"org.eclipse.elk.font.size": "10.5"}},
			want: 10.5, ok: true,
		},
		{
			name: "bare key in properties",
			opts: Options{Properties: map[string]any{"font.size": 11.0}},
			want: 11, ok: true,
		},
		{
			name: "unparseable value treated as absent",
			opts: Options{LayoutOptions: map[string]any{"elk.font.size": "not-a-number"}},
			ok:   false,
		},
		{
			name: "no value",
			opts: Options{},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.opts.FontSize()
			if ok != tt.ok || got != tt.want {
				t.Errorf("FontSize() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEdgeThicknessKeys(t *testing.T) {
	o := Options{Properties: map[string]any{"stroke.width": 2.5}}
	got, ok := o.EdgeThickness()
	if !ok || got != 2.5 {
		t.Errorf("EdgeThickness() = (%v, %v), want (2.5, true)", got, ok)
	}
}

func TestEdgeTypeOption(t *testing.T) {
	o := Options{LayoutOptions: map[string]any{"org.eclipse.elk.edge.type": "DEPENDENCY"}}
	if got := o.EdgeTypeOption(); got != "DEPENDENCY" {
		t.Errorf("EdgeTypeOption() = %q, want DEPENDENCY", got)
	}
	if got := (Options{}).EdgeTypeOption(); got != "" {
		t.Errorf("EdgeTypeOption() = %q, want empty", got)
	}
}

func TestEnrichFillsGapsOnly(t *testing.T) {
	g := &Graph{
		Children: []Node{
			{ID: "a", Width: Float(80)},
			{Labels: []Label{{Text: "B"}}, Ports: []Port{{Width: 4}}},
		},
		Edges: []Edge{{Sources: []string{"a"}}},
	}

	if err := Enrich(g); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}

	if g.ID != "canvas" {
		t.Errorf("root id = %q, want canvas", g.ID)
	}
	if v := g.LayoutOptions["org.eclipse.elk.algorithm"]; v != "layered" {
		t.Errorf("default algorithm = %v, want layered", v)
	}

	a := g.Children[0]
	if Deref(a.Width) != 80 {
		t.Errorf("explicit width overwritten: %v", Deref(a.Width))
	}
	if Deref(a.Height) != defaultNodeSize {
		t.Errorf("height = %v, want default %v", Deref(a.Height), defaultNodeSize)
	}

	b := g.Children[1]
	if !strings.HasPrefix(b.ID, "node_") || len(b.ID) != len("node_")+8 {
		t.Errorf("generated node id = %q", b.ID)
	}
	if !strings.HasPrefix(b.Ports[0].ID, "port_") {
		t.Errorf("generated port id = %q", b.Ports[0].ID)
	}
	if b.Ports[0].Width != 4 {
		t.Errorf("explicit port width overwritten: %v", b.Ports[0].Width)
	}
	if b.Ports[0].Height != defaultPortSize {
		t.Errorf("port height = %v, want %v", b.Ports[0].Height, defaultPortSize)
	}
	if b.Labels[0].Width != defaultNodeLabelW || b.Labels[0].Height != defaultNodeLabelH {
		t.Errorf("label box = (%v,%v)", b.Labels[0].Width, b.Labels[0].Height)
	}
	if fs, ok := b.Labels[0].FontSize(); !ok || fs != 16 {
		t.Errorf("label font size = (%v,%v), want (16,true)", fs, ok)
	}

	if !strings.HasPrefix(g.Edges[0].ID, "edge_") {
		t.Errorf("generated edge id = %q", g.Edges[0].ID)
	}
}

func TestEnrichRejectsDuplicateIDs(t *testing.T) {
	g := &Graph{Children: []Node{{ID: "dup"}, {ID: "dup"}}}
	if err := Enrich(g); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("err = %v, want DUPLICATE_ID", err)
	}

	g = &Graph{Children: []Node{{ID: "n", Ports: []Port{{ID: "p"}, {ID: "p"}}}}}
	if err := Enrich(g); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("port dup err = %v, want DUPLICATE_ID", err)
	}
}
