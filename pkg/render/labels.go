package render

// Routed holds labels partitioned by owner category, keyed by owner id.
// A label whose owner id could not be determined files under "".
type Routed struct {
	ByNode map[string][]*LabelGeom
	ByPort map[string][]*LabelGeom
	ByEdge map[string][]*LabelGeom
}

// HasText reports whether any routed label owned by id, in any bucket,
// carries non-empty text. Used to decide whether a node still needs a
// synthesized fallback label.
func (r *Routed) HasText(id string) bool {
	for _, bucket := range [3]map[string][]*LabelGeom{r.ByNode, r.ByPort, r.ByEdge} {
		for _, lbl := range bucket[id] {
			if lbl.Text != "" {
				return true
			}
		}
	}
	return false
}

// Route partitions labels into node, port, and edge buckets.
//
// An explicit owner kind on the label is honored unconditionally. Without
// one, ownership is inferred from the id lookup tables, edges winning over
// ports winning over nodes when an id appears in more than one table.
// Labels with an unresolvable owner still file under edges so nothing is
// silently dropped. The edge-first precedence on id collision is a
// compatibility contract: existing documents rely on it.
func Route(labels []LabelGeom, m *Model) *Routed {
	edgeIDs := make(map[string]struct{}, len(m.Edges))
	for _, ref := range m.Edges {
		edgeIDs[ref.Edge.ID] = struct{}{}
	}

	r := &Routed{
		ByNode: map[string][]*LabelGeom{},
		ByPort: map[string][]*LabelGeom{},
		ByEdge: map[string][]*LabelGeom{},
	}
	for i := range labels {
		lbl := &labels[i]
		switch lbl.Kind {
		case KindNode:
			r.ByNode[lbl.Owner] = append(r.ByNode[lbl.Owner], lbl)
		case KindPort:
			r.ByPort[lbl.Owner] = append(r.ByPort[lbl.Owner], lbl)
		case KindEdge:
			r.ByEdge[lbl.Owner] = append(r.ByEdge[lbl.Owner], lbl)
		default:
			if _, ok := edgeIDs[lbl.Owner]; ok {
				r.ByEdge[lbl.Owner] = append(r.ByEdge[lbl.Owner], lbl)
			} else if _, ok := m.Ports[lbl.Owner]; ok {
				r.ByPort[lbl.Owner] = append(r.ByPort[lbl.Owner], lbl)
			} else if _, ok := m.NodeIndex[lbl.Owner]; ok {
				r.ByNode[lbl.Owner] = append(r.ByNode[lbl.Owner], lbl)
			} else {
				r.ByEdge[lbl.Owner] = append(r.ByEdge[lbl.Owner], lbl)
			}
		}
	}
	return r
}
