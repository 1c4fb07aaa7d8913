package graph

import (
	"errors"
	"fmt"
)

var ErrInvalidGraph = errors.New("graph: invalid canonical graph")

// Validate checks the structural invariants of a canonical graph: a single root, parent
// references that resolve, levels that step by one, childIds that mirror the parent
// references in order, and exactly one edge per parent->child link.
func Validate(g *CanonicalGraph) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}
	byID := make(map[string]Node, len(g.Nodes))
	roots := 0
	for _, n := range g.Nodes {
		if _, dup := byID[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidGraph, n.ID)
		}
		byID[n.ID] = n
		if n.Type == TypeRoot {
			roots++
			if n.Level != 0 || n.ParentID != nil {
				return fmt.Errorf("%w: root %q must have level 0 and no parent", ErrInvalidGraph, n.ID)
			}
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: want exactly one root, got %d", ErrInvalidGraph, roots)
	}

	children := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Type == TypeRoot {
			continue
		}
		if n.ParentID == nil {
			return fmt.Errorf("%w: node %q has no parent", ErrInvalidGraph, n.ID)
		}
		p, ok := byID[*n.ParentID]
		if !ok {
			return fmt.Errorf("%w: node %q points at missing parent %q", ErrInvalidGraph, n.ID, *n.ParentID)
		}
		if n.Level != p.Level+1 {
			return fmt.Errorf("%w: node %q level %d under parent level %d", ErrInvalidGraph, n.ID, n.Level, p.Level)
		}
		children[p.ID] = append(children[p.ID], n.ID)
	}

	for _, n := range g.Nodes {
		want := children[n.ID]
		if len(n.ChildIDs) != len(want) {
			return fmt.Errorf("%w: node %q lists %d children, %d point at it", ErrInvalidGraph, n.ID, len(n.ChildIDs), len(want))
		}
		for i := range want {
			if n.ChildIDs[i] != want[i] {
				return fmt.Errorf("%w: node %q child order mismatch at %d", ErrInvalidGraph, n.ID, i)
			}
		}
		if n.HasChildren != (len(want) > 0) {
			return fmt.Errorf("%w: node %q hasChildren=%v with %d children", ErrInvalidGraph, n.ID, n.HasChildren, len(want))
		}
	}

	seen := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		key := [2]string{e.SourceID, e.TargetID}
		if seen[key] {
			return fmt.Errorf("%w: duplicate edge %s->%s", ErrInvalidGraph, e.SourceID, e.TargetID)
		}
		seen[key] = true
		t, ok := byID[e.TargetID]
		if !ok {
			return fmt.Errorf("%w: edge %q targets missing node %q", ErrInvalidGraph, e.ID, e.TargetID)
		}
		if _, ok := byID[e.SourceID]; !ok {
			return fmt.Errorf("%w: edge %q starts at missing node %q", ErrInvalidGraph, e.ID, e.SourceID)
		}
		if t.ParentID == nil || *t.ParentID != e.SourceID {
			return fmt.Errorf("%w: edge %q does not follow the parent link of %q", ErrInvalidGraph, e.ID, e.TargetID)
		}
	}
	if len(g.Edges) != len(g.Nodes)-1 {
		return fmt.Errorf("%w: want %d edges, got %d", ErrInvalidGraph, len(g.Nodes)-1, len(g.Edges))
	}
	return nil
}
