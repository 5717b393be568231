// Package render turns a laid-out ELK graph document into an SVG document.
//
// The pipeline has four stages, each a pure transform:
//
//  1. Collect: resolve nested relative coordinate systems into one absolute
//     canvas frame and flatten the document into indexed collections.
//  2. Route: assign every label to exactly one owner bucket (node, port,
//     or edge) under ambiguous-id conditions.
//  3. Classify: derive CSS class tokens, text anchors, baselines, and
//     marker policies from free-form type strings and geometry.
//  4. Build: assemble the layered SVG tree (background, defs, edges under
//     nodes) and serialize it deterministically.
package render

import (
	"github.com/elkdraw/elkdraw/pkg/elk"
)

// Side is the node boundary a port sits on.
type Side int

// Sides in tie-break precedence order: when a port center is equidistant
// from several boundaries, the earlier value wins.
const (
	West Side = iota
	East
	North
	South
)

func (s Side) String() string {
	switch s {
	case West:
		return "WEST"
	case East:
		return "EAST"
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	}
	return "UNKNOWN"
}

// Kind is the category of entity a label belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindNode
	KindPort
	KindEdge
)

// kindFromTag maps the wire-format owner_kind tag to a Kind.
var kindFromTag = map[string]Kind{
	"node": KindNode,
	"port": KindPort,
	"edge": KindEdge,
}

// NodeGeom is a node in absolute canvas coordinates.
type NodeGeom struct {
	ID   string
	X, Y float64
	W, H float64
	Node *elk.Node // source record (type, icon, ports)
}

// CenterX returns the horizontal center of the node.
func (n *NodeGeom) CenterX() float64 { return n.X + n.W/2 }

// CenterY returns the vertical center of the node.
func (n *NodeGeom) CenterY() float64 { return n.Y + n.H/2 }

// PortGeom is a port in absolute canvas coordinates with its inferred side.
type PortGeom struct {
	ID    string
	Owner string // owning node id
	X, Y  float64
	W, H  float64
	Side  Side
}

// CenterX returns the horizontal center of the port.
func (p *PortGeom) CenterX() float64 { return p.X + p.W/2 }

// CenterY returns the vertical center of the port.
func (p *PortGeom) CenterY() float64 { return p.Y + p.H/2 }

// LabelGeom is a label in absolute canvas coordinates. Kind is the
// authoritative owner kind when the source record declared one, or
// KindUnknown when ownership must be inferred during routing.
type LabelGeom struct {
	Kind     Kind
	Owner    string
	Text     string
	X, Y     float64
	W, H     float64
	FontSize float64 // 0 means "use the renderer default"
}

// EdgeRef pairs an edge with the absolute origin of the subgraph frame
// that declared it. Edge route points stay in that local frame until
// drawing time, when they are combined with port positions resolved here.
type EdgeRef struct {
	Edge             *elk.Edge
	OffsetX, OffsetY float64
}

// Model is the flattened document: every entity in absolute coordinates,
// ordered by document traversal, with id lookup tables for label routing.
type Model struct {
	Nodes  []NodeGeom
	Labels []LabelGeom
	Edges  []EdgeRef

	NodeIndex map[string]*NodeGeom
	Ports     map[string]*PortGeom
	portOrder []string
}

// Port returns the collected geometry for a port id.
func (m *Model) Port(id string) (*PortGeom, bool) {
	p, ok := m.Ports[id]
	return p, ok
}

// PortCenter returns the absolute center of a port, when known.
func (m *Model) PortCenter(id string) (elk.Point, bool) {
	p, ok := m.Ports[id]
	if !ok {
		return elk.Point{}, false
	}
	return elk.Point{X: p.CenterX(), Y: p.CenterY()}, true
}

// Collect flattens a graph document into absolute canvas coordinates.
//
// The walk is depth-first: at each level the subgraph's absolute origin is
// the incoming offset plus the subgraph's own x/y (the root contributes its
// own x/y over a zero offset). Children, their labels, and their ports are
// resolved against that origin; edges are recorded with the origin itself
// so their local route points can be translated at drawing time.
func Collect(doc *elk.Graph) *Model {
	m := &Model{
		NodeIndex: map[string]*NodeGeom{},
		Ports:     map[string]*PortGeom{},
	}
	m.collect(doc, 0, 0)
	return m
}

func (m *Model) collect(sub *elk.Node, offsetX, offsetY float64) {
	baseX := offsetX + sub.X
	baseY := offsetY + sub.Y

	for i := range sub.Children {
		node := &sub.Children[i]
		absX := baseX + node.X
		absY := baseY + node.Y

		m.Nodes = append(m.Nodes, NodeGeom{
			ID: node.ID,
			X:  absX, Y: absY,
			W: elk.Deref(node.Width), H: elk.Deref(node.Height),
			Node: node,
		})
		geom := &m.Nodes[len(m.Nodes)-1]
		m.NodeIndex[node.ID] = geom

		// Node labels are declared relative to the node, not the subgraph.
		for j := range node.Labels {
			lbl := &node.Labels[j]
			kind, owner := labelIdentity(lbl, KindNode, node.ID)
			m.Labels = append(m.Labels, LabelGeom{
				Kind:     kind,
				Owner:    owner,
				Text:     lbl.Text,
				X:        absX + elk.Deref(lbl.X),
				Y:        absY + elk.Deref(lbl.Y),
				W:        lbl.Width,
				H:        lbl.Height,
				FontSize: fontSizeOf(lbl),
			})
		}

		for j := range node.Ports {
			m.collectPort(geom, &node.Ports[j])
		}

		m.collect(node, baseX, baseY)
	}

	for i := range sub.Edges {
		edge := &sub.Edges[i]
		m.Edges = append(m.Edges, EdgeRef{Edge: edge, OffsetX: baseX, OffsetY: baseY})

		for j := range edge.Labels {
			lbl := &edge.Labels[j]
			kind, owner := labelIdentity(lbl, KindEdge, edge.ID)
			m.Labels = append(m.Labels, LabelGeom{
				Kind:     kind,
				Owner:    owner,
				Text:     lbl.Text,
				X:        baseX + elk.Deref(lbl.X),
				Y:        baseY + elk.Deref(lbl.Y),
				W:        lbl.Width,
				H:        lbl.Height,
				FontSize: fontSizeOf(lbl),
			})
		}
	}
}

func (m *Model) collectPort(node *NodeGeom, port *elk.Port) {
	abs := PortGeom{
		ID:    port.ID,
		Owner: node.ID,
		X:     node.X + port.X,
		Y:     node.Y + port.Y,
		W:     port.Width,
		H:     port.Height,
	}
	abs.Side = portSide(node, &abs)
	m.Ports[port.ID] = &abs
	m.portOrder = append(m.portOrder, port.ID)

	// Port labels are relative to the port; when the layout engine emitted
	// no coordinates for one, it sits at the port's center.
	for i := range port.Labels {
		lbl := &port.Labels[i]
		var lx, ly float64
		if lbl.X != nil && lbl.Y != nil {
			lx = abs.X + *lbl.X
			ly = abs.Y + *lbl.Y
		} else {
			lx = abs.CenterX()
			ly = abs.CenterY()
		}
		kind, owner := labelIdentity(lbl, KindPort, port.ID)
		m.Labels = append(m.Labels, LabelGeom{
			Kind:     kind,
			Owner:    owner,
			Text:     lbl.Text,
			X:        lx,
			Y:        ly,
			W:        lbl.Width,
			H:        lbl.Height,
			FontSize: fontSizeOf(lbl),
		})
	}
}

// portSide infers which node boundary a port sits on: the nearest of the
// four boundary distances measured from the port center, WEST winning ties
// over EAST over NORTH over SOUTH.
func portSide(node *NodeGeom, port *PortGeom) Side {
	cx := port.CenterX()
	cy := port.CenterY()

	distances := [4]float64{
		abs(cx - node.X),            // West
		abs(cx - (node.X + node.W)), // East
		abs(cy - node.Y),            // North
		abs(cy - (node.Y + node.H)), // South
	}

	best := West
	for s := East; s <= South; s++ {
		if distances[s] < distances[best] {
			best = s
		}
	}
	return best
}

// labelIdentity resolves a label's owner kind and id: an explicit
// owner_kind tag on the record is authoritative, an explicit owner id
// overrides the containing entity, and anything absent falls back to the
// nesting context the label was found in.
func labelIdentity(lbl *elk.Label, contextKind Kind, contextOwner string) (Kind, string) {
	kind := contextKind
	if k, ok := kindFromTag[lbl.OwnerKind]; ok {
		kind = k
	}
	owner := contextOwner
	if lbl.Owner != "" {
		owner = lbl.Owner
	}
	return kind, owner
}

func fontSizeOf(lbl *elk.Label) float64 {
	if fs, ok := lbl.FontSize(); ok {
		return fs
	}
	return 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
