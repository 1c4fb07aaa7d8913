package graph

import "strconv"

// arena owns every node of a graph under construction. Nodes are addressed by id and
// parents are updated through the index, never through pointers held across appends.
type arena struct {
	nodes []Node
	index map[string]int
	edges []Edge
}

func newArena() *arena {
	return &arena{index: make(map[string]int)}
}

func (a *arena) get(id string) *Node {
	i, ok := a.index[id]
	if !ok {
		return nil
	}
	return &a.nodes[i]
}

func (a *arena) add(n Node) string {
	n.ID = a.uniqueID(n.ID)
	if n.ChildIDs == nil {
		n.ChildIDs = []string{}
	}
	a.index[n.ID] = len(a.nodes)
	a.nodes = append(a.nodes, n)
	return n.ID
}

// addChild appends n under parentID, records the parent->child edge and marks the
// parent as having children. Level and type are derived from the parent.
func (a *arena) addChild(parentID string, n Node) string {
	parent := a.get(parentID)
	if parent == nil {
		return ""
	}
	n.Level = parent.Level + 1
	n.Type = TypeForLevel(n.Level)
	pid := parentID
	n.ParentID = &pid

	id := a.add(n)

	parent = a.get(parentID)
	parent.ChildIDs = append(parent.ChildIDs, id)
	parent.HasChildren = true
	a.edges = append(a.edges, Edge{
		ID:       EdgeID(parentID, id),
		SourceID: parentID,
		TargetID: id,
		Kind:     EdgeKindBezier,
	})
	return id
}

func (a *arena) uniqueID(id string) string {
	if _, taken := a.index[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := id + "_dup" + strconv.Itoa(n)
		if _, taken := a.index[candidate]; !taken {
			return candidate
		}
	}
}
