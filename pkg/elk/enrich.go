package elk

import (
	"strings"

	"github.com/google/uuid"

	"github.com/elkdraw/elkdraw/pkg/errors"
)

// Default geometry applied by Enrich. The node/port sizes match what the
// layout engine expects as minimum viable inputs; label boxes are sized for
// the default font sizes.
const (
	defaultNodeSize   = 50.0
	defaultPortSize   = 2.0
	defaultNodeLabelW = 100.0
	defaultNodeLabelH = 16.0
	defaultPortLabelW = 50.0
	defaultPortLabelH = 8.0
	defaultEdgeLabelW = 100.0
	defaultEdgeLabelH = 10.0
)

// defaultRootOptions are filled into the root layoutOptions bag for keys
// the document does not set. They steer the external layout engine and are
// opaque to the renderer.
var defaultRootOptions = map[string]any{
	"org.eclipse.elk.algorithm":                 "layered",
	"org.eclipse.elk.direction":                 "RIGHT",
	"org.eclipse.elk.aspectRatio":               "1.414",
	"org.eclipse.elk.zoomToFit":                 true,
	"org.eclipse.elk.nodeSize.constraints":      "MINIMUM_SIZE",
	"org.eclipse.elk.nodeSize.options":          "DEFAULT_MINIMUM_SIZE",
	"org.eclipse.elk.layered.layering.strategy": "NETWORK_SIMPLEX",
	"org.eclipse.elk.nodeLabels.placement":      "[H_CENTER,V_BOTTOM,OUTSIDE,H_PRIORITY]",
	"org.eclipse.elk.portLabels.placement":      "[OUTSIDE]",
}

// Enrich fills gaps in a pre-layout document so the layout engine receives
// a complete graph: generated ids, minimum node/port sizes, label boxes and
// font sizes, and root layout options. Existing values always win; Enrich
// only fills what is absent.
//
// It returns a DUPLICATE_ID error when sibling nodes, ports within one
// node, or edges within one subgraph share an id, since the layout engine
// rejects such documents with far less context.
func Enrich(g *Graph) error {
	if g.ID == "" {
		g.ID = "canvas"
	}
	if g.LayoutOptions == nil {
		g.LayoutOptions = map[string]any{}
	}
	for key, value := range defaultRootOptions {
		if _, ok := g.Option(key); !ok {
			g.LayoutOptions[key] = value
		}
	}
	return enrichLevel(g)
}

func enrichLevel(n *Node) error {
	seen := map[string]string{}
	for i := range n.Children {
		child := &n.Children[i]
		if child.ID == "" {
			child.ID = genID("node")
		}
		if prev, dup := seen[child.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateID, "node id %q repeats (%s)", child.ID, prev)
		}
		seen[child.ID] = "node"
		if err := enrichNode(child); err != nil {
			return err
		}
		if err := enrichLevel(child); err != nil {
			return err
		}
	}

	edgeSeen := map[string]bool{}
	for i := range n.Edges {
		edge := &n.Edges[i]
		if edge.ID == "" {
			edge.ID = genID("edge")
		}
		if edgeSeen[edge.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "edge id %q repeats", edge.ID)
		}
		edgeSeen[edge.ID] = true
		for j := range edge.Labels {
			enrichLabel(&edge.Labels[j], defaultEdgeLabelW, defaultEdgeLabelH, 10)
		}
	}
	return nil
}

func enrichNode(n *Node) error {
	if n.Width == nil {
		n.Width = Float(defaultNodeSize)
	}
	if n.Height == nil {
		n.Height = Float(defaultNodeSize)
	}
	for i := range n.Labels {
		enrichLabel(&n.Labels[i], defaultNodeLabelW, defaultNodeLabelH, 16)
	}

	portSeen := map[string]bool{}
	for i := range n.Ports {
		port := &n.Ports[i]
		if port.ID == "" {
			port.ID = genID("port")
		}
		if portSeen[port.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "port id %q repeats within node %q", port.ID, n.ID)
		}
		portSeen[port.ID] = true
		if port.Width == 0 {
			port.Width = defaultPortSize
		}
		if port.Height == 0 {
			port.Height = defaultPortSize
		}
		for j := range port.Labels {
			enrichLabel(&port.Labels[j], defaultPortLabelW, defaultPortLabelH, 8)
		}
	}
	return nil
}

func enrichLabel(l *Label, w, h, fontSize float64) {
	if l.Width == 0 {
		l.Width = w
	}
	if l.Height == 0 {
		l.Height = h
	}
	if _, ok := l.FontSize(); !ok {
		if l.Properties == nil {
			l.Properties = map[string]any{}
		}
		l.Properties["font.size"] = fontSize
	}
}

// genID builds ids like "node_1f2e3d4c": a kind prefix plus the first eight
// hex digits of a random UUID.
func genID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
