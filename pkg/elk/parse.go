package elk

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/elkdraw/elkdraw/pkg/errors"
)

// Decode reads one ELK JSON document from r.
//
// Decode performs no validation beyond JSON well-formedness; call
// [Validate] before handing the document to the renderer.
func Decode(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph document")
	}
	return &g, nil
}

// DecodeFile reads an ELK JSON document from a file.
func DecodeFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input graph %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks the structural invariants every downstream lookup relies
// on: each node, port, and edge carries a non-empty id. The root itself is
// exempt (its id is only decorative). The returned error names the path of
// the first offending entity.
//
// Ambiguous ids (the same id on entities of different kinds) are legal and
// resolved deterministically during label routing, so Validate does not
// reject them.
func Validate(g *Graph) error {
	return validateChildren(g, "")
}

func validateChildren(n *Node, path string) error {
	for i := range n.Children {
		child := &n.Children[i]
		childPath := fmt.Sprintf("%schildren[%d]", path, i)
		if child.ID == "" {
			return errors.New(errors.ErrCodeMissingID, "node at %s has no id", childPath)
		}
		for j := range child.Ports {
			if child.Ports[j].ID == "" {
				return errors.New(errors.ErrCodeMissingID, "port at %s.ports[%d] has no id", childPath, j)
			}
		}
		if err := validateChildren(child, childPath+"."); err != nil {
			return err
		}
	}
	for i := range n.Edges {
		if n.Edges[i].ID == "" {
			return errors.New(errors.ErrCodeMissingID, "edge at %sedges[%d] has no id", path, i)
		}
	}
	return nil
}
