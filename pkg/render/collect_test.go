package render

import (
	"testing"

	"github.com/elkdraw/elkdraw/pkg/elk"
)

func box(w, h float64) (*float64, *float64) {
	return elk.Float(w), elk.Float(h)
}

func TestCollectFlattensNestedNodes(t *testing.T) {
	doc := &elk.Graph{
		ID: "root",
		Children: []elk.Node{
			{
				ID: "group", X: 20, Y: 20,
				Children: []elk.Node{
					{ID: "inner", X: 15, Y: 10},
					{
						ID: "deep", X: 5, Y: 5,
						Children: []elk.Node{{ID: "leaf", X: 1, Y: 2}},
					},
				},
			},
			{ID: "top", X: 100, Y: 0},
		},
	}

	m := Collect(doc)

	if got, want := len(m.Nodes), 5; got != want {
		t.Fatalf("flattened %d nodes, want %d", got, want)
	}

	wantPos := map[string][2]float64{
		"group": {20, 20},
		"inner": {35, 30},
		"deep":  {25, 25},
		"leaf":  {26, 27},
		"top":   {100, 0},
	}
	for id, want := range wantPos {
		n, ok := m.NodeIndex[id]
		if !ok {
			t.Fatalf("node %q missing from index", id)
		}
		if n.X != want[0] || n.Y != want[1] {
			t.Errorf("node %q at (%v,%v), want (%v,%v)", id, n.X, n.Y, want[0], want[1])
		}
	}
}

func TestCollectRootPositionContributes(t *testing.T) {
	doc := &elk.Graph{
		ID: "root", X: 7, Y: 3,
		Children: []elk.Node{{ID: "a", X: 10, Y: 10}},
	}
	m := Collect(doc)
	n := m.NodeIndex["a"]
	if n.X != 17 || n.Y != 13 {
		t.Fatalf("node at (%v,%v), want (17,13)", n.X, n.Y)
	}
}

func TestCollectNodeLabelAbsolute(t *testing.T) {
	w, h := box(50, 20)
	doc := &elk.Graph{
		ID: "root",
		Children: []elk.Node{
			{
				ID: "sub", X: 10, Y: 10,
				Children: []elk.Node{{
					ID: "n", X: 5, Y: 5, Width: w, Height: h,
					Labels: []elk.Label{{
						Text: "hello",
						X:    elk.Float(2), Y: elk.Float(3),
						Width: 30, Height: 10,
					}},
				}},
			},
		},
	}
	m := Collect(doc)
	if len(m.Labels) != 1 {
		t.Fatalf("collected %d labels, want 1", len(m.Labels))
	}
	lbl := m.Labels[0]
	if lbl.X != 17 || lbl.Y != 18 {
		t.Errorf("label at (%v,%v), want (17,18)", lbl.X, lbl.Y)
	}
	if lbl.Kind != KindNode || lbl.Owner != "n" {
		t.Errorf("label routed as kind=%v owner=%q, want node/n", lbl.Kind, lbl.Owner)
	}
}

func TestCollectEdgeOffset(t *testing.T) {
	doc := &elk.Graph{
		ID: "root",
		Children: []elk.Node{{
			ID: "sub", X: 30, Y: 40,
			Edges: []elk.Edge{{ID: "e1"}},
		}},
		Edges: []elk.Edge{{ID: "e0"}},
	}
	m := Collect(doc)
	if len(m.Edges) != 2 {
		t.Fatalf("collected %d edges, want 2", len(m.Edges))
	}
	// Root-level edge keeps the root frame, nested edge its subgraph frame.
	for _, ref := range m.Edges {
		switch ref.Edge.ID {
		case "e0":
			if ref.OffsetX != 0 || ref.OffsetY != 0 {
				t.Errorf("e0 offset (%v,%v), want (0,0)", ref.OffsetX, ref.OffsetY)
			}
		case "e1":
			if ref.OffsetX != 30 || ref.OffsetY != 40 {
				t.Errorf("e1 offset (%v,%v), want (30,40)", ref.OffsetX, ref.OffsetY)
			}
		}
	}
}

func TestPortSideInference(t *testing.T) {
	w, h := box(40, 20)
	tests := []struct {
		name string
		port elk.Port
		want Side
	}{
		{"left edge", elk.Port{ID: "p", X: -1, Y: 9, Width: 2, Height: 2}, West},
		{"right edge", elk.Port{ID: "p", X: 39, Y: 9, Width: 2, Height: 2}, East},
		{"top edge", elk.Port{ID: "p", X: 19, Y: -1, Width: 2, Height: 2}, North},
		{"bottom edge", elk.Port{ID: "p", X: 19, Y: 19, Width: 2, Height: 2}, South},
		// Dead center of a wide node is closer to top and bottom than to
		// the sides, and NORTH beats SOUTH on the tie.
		{"north south tie", elk.Port{ID: "p", X: 19, Y: 9, Width: 2, Height: 2}, North},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &elk.Graph{
				ID: "root",
				Children: []elk.Node{{
					ID: "n", Width: w, Height: h,
					Ports: []elk.Port{tt.port},
				}},
			}
			m := Collect(doc)
			p, ok := m.Port("p")
			if !ok {
				t.Fatal("port not collected")
			}
			if p.Side != tt.want {
				t.Errorf("side = %v, want %v", p.Side, tt.want)
			}
		})
	}
}

func TestPortSideFourWayTie(t *testing.T) {
	// The dead center of a square node is equidistant from all four
	// boundaries; WEST wins the full tie.
	w, h := box(20, 20)
	doc := &elk.Graph{
		ID: "root",
		Children: []elk.Node{{
			ID: "n", Width: w, Height: h,
			Ports: []elk.Port{{ID: "p", X: 9, Y: 9, Width: 2, Height: 2}},
		}},
	}
	m := Collect(doc)
	p, _ := m.Port("p")
	if p.Side != West {
		t.Fatalf("4-way tie resolved to %v, want WEST", p.Side)
	}
}

func TestPortLabelDefaultsToPortCenter(t *testing.T) {
	w, h := box(40, 20)
	doc := &elk.Graph{
		ID: "root",
		Children: []elk.Node{{
			ID: "n", X: 10, Y: 10, Width: w, Height: h,
			Ports: []elk.Port{{
				ID: "p", X: -1, Y: 9, Width: 2, Height: 2,
				Labels: []elk.Label{
					{Text: "implicit"},
					{Text: "explicit", X: elk.Float(3), Y: elk.Float(4)},
				},
			}},
		}},
	}
	m := Collect(doc)
	if len(m.Labels) != 2 {
		t.Fatalf("collected %d labels, want 2", len(m.Labels))
	}
	// Port absolute position is (9,19); center (10,20).
	implicit, explicit := m.Labels[0], m.Labels[1]
	if implicit.X != 10 || implicit.Y != 20 {
		t.Errorf("implicit label at (%v,%v), want port center (10,20)", implicit.X, implicit.Y)
	}
	if explicit.X != 12 || explicit.Y != 23 {
		t.Errorf("explicit label at (%v,%v), want (12,23)", explicit.X, explicit.Y)
	}
}

func TestRouteInferencePrecedence(t *testing.T) {
	w, h := box(10, 10)
	doc := &elk.Graph{
		ID: "root",
		Children: []elk.Node{{
			ID: "dup", Width: w, Height: h,
			Ports: []elk.Port{{ID: "dup", Width: 2, Height: 2}},
		}},
		Edges: []elk.Edge{{ID: "dup"}},
	}
	m := Collect(doc)

	labels := []LabelGeom{
		{Kind: KindUnknown, Owner: "dup", Text: "collides"},
		{Kind: KindUnknown, Owner: "nowhere", Text: "orphan"},
		{Kind: KindPort, Owner: "dup", Text: "tagged"},
	}
	r := Route(labels, m)

	if got := r.ByEdge["dup"]; len(got) != 1 || got[0].Text != "collides" {
		t.Errorf("id collision routed %v under edges, want the untagged label", got)
	}
	if got := r.ByEdge["nowhere"]; len(got) != 1 || got[0].Text != "orphan" {
		t.Errorf("unknown owner routed %v, want edge fallback", got)
	}
	if got := r.ByPort["dup"]; len(got) != 1 || got[0].Text != "tagged" {
		t.Errorf("explicit port tag routed %v, want the tagged label", got)
	}
	if len(r.ByNode) != 0 {
		t.Errorf("unexpected node labels: %v", r.ByNode)
	}
}

func TestRouteExplicitKindFromDocument(t *testing.T) {
	w, h := box(10, 10)
	doc := &elk.Graph{
		ID: "root",
		Children: []elk.Node{{
			ID: "n1", Width: w, Height: h,
			Labels: []elk.Label{{
				Text: "belongs to the edge", Owner: "e1", OwnerKind: "edge",
			}},
		}},
		Edges: []elk.Edge{{ID: "e1"}},
	}
	m := Collect(doc)
	r := Route(m.Labels, m)

	if got := r.ByEdge["e1"]; len(got) != 1 {
		t.Fatalf("edge bucket = %v, want the re-owned label", got)
	}
	if len(r.ByNode["n1"]) != 0 {
		t.Errorf("label still filed under its declaring node")
	}
}

func TestRoutedHasText(t *testing.T) {
	r := &Routed{
		ByNode: map[string][]*LabelGeom{"a": {{Text: ""}}},
		ByPort: map[string][]*LabelGeom{},
		ByEdge: map[string][]*LabelGeom{"b": {{Text: "x"}}},
	}
	if r.HasText("a") {
		t.Error("empty-text label counted as text")
	}
	if !r.HasText("b") {
		t.Error("edge-bucket text not found")
	}
	if r.HasText("c") {
		t.Error("unknown id reported text")
	}
}
