package render

import (
	"regexp"
	"strings"

	"github.com/elkdraw/elkdraw/pkg/elk"
)

var nonTokenRuns = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ClassToken normalizes a free-form type string into a CSS-class-safe
// token. Runs of characters outside [a-zA-Z0-9_-] collapse to a single
// hyphen, the result is lower-cased and trimmed of edge hyphens and
// underscores. An empty result becomes "type-unknown"; a leading digit
// gets a "type-" prefix so the token stays a valid CSS class.
func ClassToken(value string) string {
	token := nonTokenRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-")
	token = strings.Trim(token, "-_")
	if token == "" {
		return "type-unknown"
	}
	if token[0] >= '0' && token[0] <= '9' {
		return "type-" + token
	}
	return token
}

// textAnchor picks the horizontal anchor for a label. Port labels lean
// away from the node body: WEST ports anchor at the text end, EAST ports
// at the start. Everything else stays centered.
func textAnchor(kind Kind, owner string, m *Model) string {
	if kind != KindPort && kind != KindUnknown {
		return "middle"
	}
	port, ok := m.Ports[owner]
	if !ok {
		return "middle"
	}
	switch port.Side {
	case West:
		return "end"
	case East:
		return "start"
	}
	return "middle"
}

// baselineEpsilon guards the above/below comparison against float noise
// from the absolute-coordinate additions.
const baselineEpsilon = 1e-6

// dominantBaseline picks the vertical alignment for a port label by
// comparing the label's center against the port's center.
func dominantBaseline(kind Kind, owner string, labelCenterY float64, m *Model) string {
	if kind != KindPort && kind != KindUnknown {
		return "middle"
	}
	port, ok := m.Ports[owner]
	if !ok {
		return "middle"
	}
	center := port.CenterY()
	switch {
	case labelCenterY < center-baselineEpsilon:
		return "text-before-edge"
	case labelCenterY > center+baselineEpsilon:
		return "text-after-edge"
	}
	return "middle"
}

// edgeRendering is the marker/stroke policy derived from an edge type.
type edgeRendering struct {
	markerStart     string
	markerEnd       string
	strokeDasharray string
}

// edgeType resolves the effective type string for an edge: the option bag
// wins over the direct field; case folds to upper for matching.
func edgeType(edge *elk.Edge) string {
	t := edge.EdgeTypeOption()
	if t == "" {
		t = edge.Type
	}
	return strings.ToUpper(t)
}

// classifyEdge maps a resolved edge type to its marker/stroke policy.
// Unrecognized or absent types render as directed edges.
func classifyEdge(edge *elk.Edge) edgeRendering {
	r := edgeRendering{markerEnd: "url(#arrow)"}
	switch edgeType(edge) {
	case "NONE", "UNDIRECTED":
		r.markerEnd = ""
	case "DIRECTED":
		r.markerEnd = "url(#arrow)"
	case "ASSOCIATION":
		r.markerEnd = "url(#arrow-open)"
	case "DEPENDENCY":
		r.markerEnd = "url(#arrow-open)"
		r.strokeDasharray = "6 3"
	case "GENERALIZATION":
		r.markerEnd = "url(#triangle-hollow)"
	}
	return r
}

// edgeThickness resolves an edge stroke width: option value when parseable,
// else the style default, clamped to a minimum visible width of 1.
func edgeThickness(edge *elk.Edge, fallback float64) float64 {
	w := fallback
	if t, ok := edge.EdgeThickness(); ok {
		w = t
	}
	if w < 1 {
		return 1
	}
	return w
}
