// Package elk models laid-out ELK JSON graph documents: the coordinate-
// enriched JSON an external layout engine emits after running a layout
// algorithm. The renderer consumes these documents; it never computes
// positions itself.
//
// Coordinates in the wire format are relative: a node's x/y is relative to
// its containing subgraph, a port's to its node, a node label's to its node,
// a port label's to its port, and an edge's route points to the subgraph
// that declares the edge. Resolution to absolute canvas coordinates happens
// in the render package.
package elk

// Graph is the root document. It is itself a node-like container (the root
// subgraph) holding children and edges.
type Graph = Node

// Node is one graph node, possibly nested. The root document shares this
// shape. Width and Height are pointers because the canvas-sizing rule needs
// to distinguish "absent" from an explicit zero.
type Node struct {
	ID       string   `json:"id,omitempty"`
	X        float64  `json:"x,omitempty"`
	Y        float64  `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Type     string   `json:"type,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Labels   []Label  `json:"labels,omitempty"`
	Ports    []Port   `json:"ports,omitempty"`
	Children []Node   `json:"children,omitempty"`
	Edges    []Edge   `json:"edges,omitempty"`

	Options
}

// Port is a connection point on a node's boundary. Its coordinates are
// relative to the owning node.
type Port struct {
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Labels []Label `json:"labels,omitempty"`

	Options
}

// Edge connects ports (or nodes, via port-less ids). Route geometry lives
// in Sections; when the layout engine emits none, the renderer falls back
// to connecting the first source and target port centers.
type Edge struct {
	ID             string    `json:"id,omitempty"`
	Sources        []string  `json:"sources,omitempty"`
	Targets        []string  `json:"targets,omitempty"`
	Sections       []Section `json:"sections,omitempty"`
	JunctionPoints []Point   `json:"junctionPoints,omitempty"`
	Labels         []Label   `json:"labels,omitempty"`
	Type           string    `json:"type,omitempty"`

	Options
}

// Section is one continuous routed path of an edge.
type Section struct {
	ID         string  `json:"id,omitempty"`
	StartPoint *Point  `json:"startPoint,omitempty"`
	EndPoint   *Point  `json:"endPoint,omitempty"`
	BendPoints []Point `json:"bendPoints,omitempty"`
}

// Point is a 2D coordinate in the frame of the declaring subgraph.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Label is free text attached to a node, port, or edge. X and Y are
// pointers: a port label without coordinates is placed at the port center,
// which is different from one at relative (0,0).
//
// Owner and OwnerKind are optional on the wire. When OwnerKind is present
// ("node", "port" or "edge") it is authoritative for label routing;
// otherwise ownership is inferred from the id sets.
type Label struct {
	ID        string   `json:"id,omitempty"`
	Text      string   `json:"text,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Owner     string   `json:"owner,omitempty"`
	OwnerKind string   `json:"owner_kind,omitempty"`

	Options
}

// Deref returns the value of an optional dimension, defaulting to 0.
func Deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v, for building documents in code.
func Float(v float64) *float64 { return &v }
