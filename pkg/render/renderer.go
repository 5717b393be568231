package render

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/elkdraw/elkdraw/pkg/elk"
	"github.com/elkdraw/elkdraw/pkg/icons"
	"github.com/elkdraw/elkdraw/pkg/svg"
	"github.com/elkdraw/elkdraw/pkg/theme"
)

// DefaultFontSize is applied to labels that declare no size of their own.
const DefaultFontSize = 12.0

// NodeStyle is the default appearance of node shapes.
type NodeStyle struct {
	Fill         string
	Stroke       string
	CornerRadius float64
}

// PortStyle is the default appearance of port shapes.
type PortStyle struct {
	Fill   string
	Stroke string
}

// EdgeStyle is the default appearance of edge strokes. Width also styles
// the fixed marker definitions.
type EdgeStyle struct {
	Stroke string
	Width  float64
}

// DefaultNodeStyle returns the built-in node appearance.
func DefaultNodeStyle() NodeStyle {
	return NodeStyle{Fill: "lightblue", Stroke: "black", CornerRadius: 2}
}

// DefaultPortStyle returns the built-in port appearance.
func DefaultPortStyle() PortStyle {
	return PortStyle{Fill: "#444", Stroke: "#111"}
}

// DefaultEdgeStyle returns the built-in edge appearance.
func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{Stroke: "#222", Width: 1.5}
}

// Renderer converts a laid-out graph document into an SVG tree. Construct
// one with [New]; a Renderer may render the same document repeatedly and
// each call runs an independent pass.
type Renderer struct {
	doc      *elk.Graph
	padding  float64
	fontSize float64
	node     NodeStyle
	port     PortStyle
	edge     EdgeStyle

	embedTheme bool
	themeCSS   string // "" falls back to the bundled default

	resolver icons.Resolver
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithPadding adds uniform padding around the drawing. Canvas dimensions
// grow by twice the padding.
func WithPadding(p float64) Option {
	return func(r *Renderer) { r.padding = p }
}

// WithFontSize sets the default label font size.
func WithFontSize(size float64) Option {
	return func(r *Renderer) { r.fontSize = size }
}

// WithNodeStyle overrides node appearance. Zero-valued fields keep the
// built-in default.
func WithNodeStyle(s NodeStyle) Option {
	return func(r *Renderer) {
		if s.Fill != "" {
			r.node.Fill = s.Fill
		}
		if s.Stroke != "" {
			r.node.Stroke = s.Stroke
		}
		if s.CornerRadius != 0 {
			r.node.CornerRadius = s.CornerRadius
		}
	}
}

// WithPortStyle overrides port appearance. Zero-valued fields keep the
// built-in default.
func WithPortStyle(s PortStyle) Option {
	return func(r *Renderer) {
		if s.Fill != "" {
			r.port.Fill = s.Fill
		}
		if s.Stroke != "" {
			r.port.Stroke = s.Stroke
		}
	}
}

// WithEdgeStyle overrides edge appearance. Zero-valued fields keep the
// built-in default.
func WithEdgeStyle(s EdgeStyle) Option {
	return func(r *Renderer) {
		if s.Stroke != "" {
			r.edge.Stroke = s.Stroke
		}
		if s.Width != 0 {
			r.edge.Width = s.Width
		}
	}
}

// WithThemeCSS embeds the given stylesheet instead of the bundled default.
func WithThemeCSS(css string) Option {
	return func(r *Renderer) { r.themeCSS = css }
}

// WithoutTheme disables stylesheet embedding entirely.
func WithoutTheme() Option {
	return func(r *Renderer) { r.embedTheme = false }
}

// WithIconResolver supplies the icon backend. Without one, icon names on
// nodes are ignored.
func WithIconResolver(res icons.Resolver) Option {
	return func(r *Renderer) { r.resolver = res }
}

// New validates the document and prepares a renderer for it. Validation
// failures (missing identifiers) are the only fatal input condition;
// everything else degrades during rendering.
func New(doc *elk.Graph, opts ...Option) (*Renderer, error) {
	if err := elk.Validate(doc); err != nil {
		return nil, err
	}
	r := &Renderer{
		doc:        doc,
		fontSize:   DefaultFontSize,
		node:       DefaultNodeStyle(),
		port:       DefaultPortStyle(),
		edge:       DefaultEdgeStyle(),
		embedTheme: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render runs one full pass over the document and returns the SVG root.
func (r *Renderer) Render(ctx context.Context) (*svg.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model := Collect(r.doc)
	p := &pass{
		Renderer: r,
		ctx:      ctx,
		model:    model,
		routed:   Route(model.Labels, model),
		glyphs:   map[string]*icons.Glyph{},
		glyphIDs: map[string]string{},
	}

	width, height := p.canvasSize()

	root := svg.NewElement("svg").
		Set("xmlns", "http://www.w3.org/2000/svg").
		SetNum("width", width).
		SetNum("height", height)

	if bg := p.backgroundRect(width, height); bg != nil {
		root.Append(bg)
	}
	if style := p.styleElement(); style != nil {
		root.Append(style)
	}
	root.Append(p.buildDefs())
	if edges := p.buildEdges(); edges.Len() > 0 {
		root.Append(edges)
	}
	if nodes := p.buildNodes(); nodes.Len() > 0 {
		root.Append(nodes)
	}
	return root, nil
}

// pass is the state of one rendering pass: the resolved model plus the
// per-pass icon memo, so repeated icon names resolve exactly once and
// marker/glyph definitions are never shared across renders.
type pass struct {
	*Renderer
	ctx      context.Context
	model    *Model
	routed   *Routed
	glyphs   map[string]*icons.Glyph
	glyphIDs map[string]string
}

func (p *pass) canvasSize() (float64, float64) {
	if p.doc.Width != nil && p.doc.Height != nil {
		return *p.doc.Width + p.padding*2, *p.doc.Height + p.padding*2
	}
	var maxX, maxY float64
	for i := range p.model.Nodes {
		n := &p.model.Nodes[i]
		if x := n.X + n.W; x > maxX {
			maxX = x
		}
		if y := n.Y + n.H; y > maxY {
			maxY = y
		}
	}
	return maxX + p.padding*2, maxY + p.padding*2
}

func (p *pass) backgroundRect(canvasW, canvasH float64) *svg.Element {
	w := canvasW - p.padding*2
	h := canvasH - p.padding*2
	if w <= 0 || h <= 0 {
		return nil
	}
	rect := svg.NewElement("rect")
	if p.doc.ID != "" {
		rect.Set("id", p.doc.ID)
	}
	return rect.
		Set("class", "background").
		SetNum("x", p.padding).
		SetNum("y", p.padding).
		SetNum("width", w).
		SetNum("height", h).
		Set("fill", "none").
		Set("stroke", "none")
}

func (p *pass) styleElement() *svg.Element {
	if !p.embedTheme {
		return nil
	}
	css := p.themeCSS
	if css == "" {
		css = theme.DefaultCSS()
	}
	if strings.TrimSpace(css) == "" {
		return nil
	}
	return svg.NewElement("style").Append(svg.Text(css))
}

// ------------------------------------------------------------------ //
// Definitions
// ------------------------------------------------------------------ //

func (p *pass) buildDefs() *svg.Element {
	defs := svg.NewElement("defs")
	defs.Append(p.arrowMarker(), p.openArrowMarker(), p.triangleMarker())
	defs.Append(p.iconDefs()...)
	return defs
}

func (p *pass) marker(id string, size, refX, refY float64) *svg.Element {
	return svg.NewElement("marker").
		Set("id", id).
		SetNum("markerWidth", size).
		SetNum("markerHeight", size).
		SetNum("refX", refX).
		SetNum("refY", refY).
		Set("orient", "auto").
		Set("markerUnits", "strokeWidth")
}

func (p *pass) arrowMarker() *svg.Element {
	path := svg.NewElement("path").
		Set("d", "M 0 0 L 10 5 L 0 10 L 2 5 Z").
		Set("fill", p.edge.Stroke)
	return p.marker("arrow", 10, 5, 5).Append(path)
}

func (p *pass) openArrowMarker() *svg.Element {
	path := svg.NewElement("path").
		Set("d", "M 0 0 L 10 5 L 0 10").
		Set("fill", "none").
		Set("stroke", p.edge.Stroke).
		SetNum("stroke-width", p.edge.Width)
	return p.marker("arrow-open", 10, 10, 5).Append(path)
}

func (p *pass) triangleMarker() *svg.Element {
	path := svg.NewElement("path").
		Set("d", "M 0 0 L 10 6 L 0 12 Z").
		Set("fill", "white").
		Set("stroke", p.edge.Stroke).
		SetNum("stroke-width", p.edge.Width)
	return p.marker("triangle-hollow", 12, 10, 6).Append(path)
}

// iconDefs emits one glyph definition per distinct icon name, in document
// order, skipping names whose content did not resolve.
func (p *pass) iconDefs() []svg.Node {
	var defs []svg.Node
	seen := map[string]struct{}{}
	for i := range p.model.Nodes {
		name := p.model.Nodes[i].Node.Icon
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		glyph := p.glyph(name)
		if glyph == nil {
			continue
		}
		g := svg.NewElement("g").
			Set("id", p.glyphID(name)).
			Append(svg.Raw(glyph.Inner))
		defs = append(defs, g)
	}
	return defs
}

// glyph resolves icon content, memoizing both success and failure for the
// duration of the pass. Resolution failures drop the icon.
func (p *pass) glyph(name string) *icons.Glyph {
	if g, ok := p.glyphs[name]; ok {
		return g
	}
	var g *icons.Glyph
	if p.resolver != nil {
		g, _ = p.resolver.Resolve(p.ctx, name)
	}
	p.glyphs[name] = g
	return g
}

var iconIDUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// glyphID returns a stable sanitized definition id for an icon name. Two
// distinct names sanitizing to the same id are disambiguated with a hash
// suffix so <use> references stay unambiguous.
func (p *pass) glyphID(name string) string {
	if id, ok := p.glyphIDs[name]; ok {
		return id
	}
	safe := strings.Trim(iconIDUnsafe.ReplaceAllString(name, "-"), "-_")
	if safe == "" {
		safe = "icon"
	}
	candidate := "icon-" + safe
	for _, taken := range p.glyphIDs {
		if taken == candidate {
			sum := sha1.Sum([]byte(name))
			candidate += "-" + hex.EncodeToString(sum[:])[:8]
			break
		}
	}
	p.glyphIDs[name] = candidate
	return candidate
}

// ------------------------------------------------------------------ //
// Nodes layer
// ------------------------------------------------------------------ //

func (p *pass) buildNodes() *svg.Element {
	group := svg.NewElement("g").Set("id", "nodes")
	for i := range p.model.Nodes {
		group.Append(p.buildNode(&p.model.Nodes[i]))
	}
	return group
}

func (p *pass) buildNode(node *NodeGeom) *svg.Element {
	classes := []string{"node"}
	if node.Node.Type != "" {
		classes = append(classes, ClassToken(node.Node.Type))
	}
	g := svg.NewElement("g").
		Set("id", node.ID).
		Set("class", strings.Join(classes, " "))

	rect := svg.NewElement("rect").
		SetNum("x", node.X).
		SetNum("y", node.Y).
		SetNum("width", node.W).
		SetNum("height", node.H).
		Set("fill", p.node.Fill).
		Set("stroke", p.node.Stroke)
	if p.node.CornerRadius != 0 {
		rect.SetNum("rx", p.node.CornerRadius)
	}
	g.Append(rect)

	if node.Node.Icon != "" {
		if icon := p.iconElement(node.Node.Icon, node); icon != nil {
			g.Append(icon)
		}
	}

	labels := svg.NewElement("g").Set("class", "labels")
	for _, lbl := range p.routed.ByNode[node.ID] {
		labels.Append(p.labelText(lbl, KindNode))
	}
	if labels.Len() == 0 && !p.routed.HasText(node.ID) {
		fallback := svg.NewElement("text").
			SetNum("x", node.CenterX()).
			SetNum("y", node.CenterY()).
			SetNum("font-size", p.fontSize).
			Set("text-anchor", "middle").
			Set("dominant-baseline", "middle").
			Set("fill", "#111").
			Append(svg.Text(node.ID))
		labels.Append(fallback)
	}
	g.Append(labels)

	if ports := p.buildPorts(node); ports.Len() > 0 {
		g.Append(ports)
	}
	return g
}

func (p *pass) buildPorts(node *NodeGeom) *svg.Element {
	group := svg.NewElement("g").Set("class", "ports")
	for i := range node.Node.Ports {
		port, ok := p.model.Ports[node.Node.Ports[i].ID]
		if !ok {
			continue
		}
		g := svg.NewElement("g").
			Set("id", port.ID).
			Set("class", "port")
		g.Append(svg.NewElement("rect").
			SetNum("x", port.X).
			SetNum("y", port.Y).
			SetNum("width", port.W).
			SetNum("height", port.H).
			Set("fill", p.port.Fill).
			Set("stroke", p.port.Stroke))

		labels := svg.NewElement("g").Set("class", "labels")
		for _, lbl := range p.routed.ByPort[port.ID] {
			if bg := labelBackground(lbl); bg != nil {
				labels.Append(bg)
			}
			labels.Append(p.labelText(lbl, KindPort))
		}
		if labels.Len() > 0 {
			g.Append(labels)
		}
		group.Append(g)
	}
	return group
}

// iconElement centers an icon glyph reference inside the node shape,
// keeping the glyph's aspect ratio within a fixed inner margin.
func (p *pass) iconElement(name string, node *NodeGeom) *svg.Element {
	glyph := p.glyph(name)
	if glyph == nil {
		return nil
	}

	const margin = 4.0
	targetW := max(node.W-margin*2, 1)
	targetH := max(node.H-margin*2, 1)
	scale := min(targetW/glyph.Width, targetH/glyph.Height)

	transform := "translate(" + svg.FormatNum(node.CenterX()) + "," + svg.FormatNum(node.CenterY()) + ")" +
		" scale(" + svg.FormatNum(scale) + ")" +
		" translate(" + svg.FormatNum(-glyph.Width/2) + "," + svg.FormatNum(-glyph.Height/2) + ")"

	use := svg.NewElement("use").Set("href", "#"+p.glyphID(name))
	return svg.NewElement("g").
		Set("class", "icon").
		Set("transform", transform).
		Append(use)
}

// ------------------------------------------------------------------ //
// Edges layer
// ------------------------------------------------------------------ //

func (p *pass) buildEdges() *svg.Element {
	group := svg.NewElement("g").Set("id", "edges")
	for i := range p.model.Edges {
		if g := p.buildEdge(&p.model.Edges[i]); g.Len() > 0 {
			group.Append(g)
		}
	}
	return group
}

func (p *pass) buildEdge(ref *EdgeRef) *svg.Element {
	edge := ref.Edge
	classes := []string{"edge"}
	if edge.Type != "" {
		classes = append(classes, ClassToken(edge.Type))
	}
	g := svg.NewElement("g").
		Set("id", edge.ID).
		Set("class", strings.Join(classes, " "))

	thickness := edgeThickness(edge, p.edge.Width)
	rendering := classifyEdge(edge)

	sections := edge.Sections
	if len(sections) == 0 {
		if fb, ok := p.fallbackSection(edge, ref); ok {
			sections = []elk.Section{fb}
		}
	}

	for i := range sections {
		points := p.sectionPoints(edge, &sections[i], ref)
		if len(points) == 0 {
			continue
		}
		poly := svg.NewElement("polyline").
			Set("points", formatPoints(points)).
			Set("stroke", p.edge.Stroke).
			Set("fill", "none").
			SetNum("stroke-width", thickness)
		if rendering.markerEnd != "" {
			poly.Set("marker-end", rendering.markerEnd)
		}
		if rendering.markerStart != "" {
			poly.Set("marker-start", rendering.markerStart)
		}
		if rendering.strokeDasharray != "" {
			poly.Set("stroke-dasharray", rendering.strokeDasharray)
		}
		g.Append(poly)

		for _, bend := range sections[i].BendPoints {
			g.Append(svg.NewElement("circle").
				SetNum("cx", bend.X+ref.OffsetX).
				SetNum("cy", bend.Y+ref.OffsetY).
				SetNum("r", 2).
				Set("fill", "#888").
				Set("stroke", "none"))
		}
	}

	for _, jp := range edge.JunctionPoints {
		g.Append(svg.NewElement("circle").
			SetNum("cx", jp.X+ref.OffsetX).
			SetNum("cy", jp.Y+ref.OffsetY).
			SetNum("r", 2.5).
			Set("fill", "#444"))
	}

	labels := svg.NewElement("g").Set("class", "labels")
	for _, lbl := range p.routed.ByEdge[edge.ID] {
		if bg := labelBackground(lbl); bg != nil {
			labels.Append(bg)
		}
		labels.Append(p.labelText(lbl, KindEdge))
	}
	if labels.Len() > 0 {
		g.Append(labels)
	}
	return g
}

// sectionPoints resolves one section's route into absolute coordinates.
// Declared points are local to the edge's subgraph frame; missing start or
// end points fall back to the first source/target port center, which is
// already absolute.
func (p *pass) sectionPoints(edge *elk.Edge, section *elk.Section, ref *EdgeRef) []elk.Point {
	var pts []elk.Point

	if section.StartPoint != nil {
		pts = append(pts, elk.Point{X: section.StartPoint.X + ref.OffsetX, Y: section.StartPoint.Y + ref.OffsetY})
	} else if c, ok := p.firstPortCenter(edge.Sources); ok {
		pts = append(pts, c)
	}

	for _, bend := range section.BendPoints {
		pts = append(pts, elk.Point{X: bend.X + ref.OffsetX, Y: bend.Y + ref.OffsetY})
	}

	if section.EndPoint != nil {
		pts = append(pts, elk.Point{X: section.EndPoint.X + ref.OffsetX, Y: section.EndPoint.Y + ref.OffsetY})
	} else if c, ok := p.firstPortCenter(edge.Targets); ok {
		pts = append(pts, c)
	}
	return pts
}

// fallbackSection synthesizes a straight section between the first source
// and target port centers when the layout emitted no route. Points are
// stored local to the edge's frame so sectionPoints can treat them like
// declared ones.
func (p *pass) fallbackSection(edge *elk.Edge, ref *EdgeRef) (elk.Section, bool) {
	start, okS := p.firstPortCenter(edge.Sources)
	end, okT := p.firstPortCenter(edge.Targets)
	if !okS || !okT {
		return elk.Section{}, false
	}
	return elk.Section{
		StartPoint: &elk.Point{X: start.X - ref.OffsetX, Y: start.Y - ref.OffsetY},
		EndPoint:   &elk.Point{X: end.X - ref.OffsetX, Y: end.Y - ref.OffsetY},
	}, true
}

func (p *pass) firstPortCenter(ids []string) (elk.Point, bool) {
	if len(ids) == 0 {
		return elk.Point{}, false
	}
	return p.model.PortCenter(ids[0])
}

func formatPoints(pts []elk.Point) string {
	var b strings.Builder
	for i, pt := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(svg.FormatNum(pt.X))
		b.WriteByte(',')
		b.WriteString(svg.FormatNum(pt.Y))
	}
	return b.String()
}

// ------------------------------------------------------------------ //
// Labels
// ------------------------------------------------------------------ //

func (p *pass) labelText(lbl *LabelGeom, kind Kind) *svg.Element {
	cx := lbl.X + lbl.W/2
	cy := lbl.Y + lbl.H/2
	size := lbl.FontSize
	if size == 0 {
		size = p.fontSize
	}
	return svg.NewElement("text").
		SetNum("x", cx).
		SetNum("y", cy).
		SetNum("font-size", size).
		Set("text-anchor", textAnchor(kind, lbl.Owner, p.model)).
		Set("dominant-baseline", dominantBaseline(kind, lbl.Owner, cy, p.model)).
		Set("fill", "#111").
		Append(svg.Text(lbl.Text))
}

// labelBackground outlines a label's declared box. Port and edge labels
// get one when the box has positive area; node labels never do.
func labelBackground(lbl *LabelGeom) *svg.Element {
	if lbl.W <= 0 || lbl.H <= 0 {
		return nil
	}
	return svg.NewElement("rect").
		Set("class", "background").
		SetNum("x", lbl.X).
		SetNum("y", lbl.Y).
		SetNum("width", lbl.W).
		SetNum("height", lbl.H).
		Set("fill", "none").
		Set("stroke", "#111").
		SetNum("stroke-width", 0.5)
}
