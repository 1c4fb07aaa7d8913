package sidebar

import "strings"

type rootStrategy func(nodes []Node) (Node, bool)

// childStrategy finds the children of anchor. The bool reports whether the strategy
// matched anything, so callers never rely on an empty slice meaning "try the next one".
type childStrategy func(nodes []Node, anchor Node, edges []Edge) ([]Node, bool)

var rootStrategies = []rootStrategy{
	rootByMarker,
	rootByLevel,
	rootByWellKnownID,
	rootByShape,
}

var topicStrategies = []childStrategy{
	byChildIDs,
	byParentRef,
	byLevel(1),
	byEdges,
}

var subtopicStrategies = []childStrategy{
	byChildIDs,
	byParentRef,
	byLevelAndParent(2),
	byEdges,
}

// FindRoot tries, in order: an explicit root type or isRoot flag, level 0, the ids
// "central"/"root", then any node with children but no parent.
func FindRoot(nodes []Node) (Node, bool) {
	for _, s := range rootStrategies {
		if n, ok := s(nodes); ok {
			return n, true
		}
	}
	return Node{}, false
}

// FindTopics returns the root's children: childIds, then parent references, then
// level 1, then edges leaving the root.
func FindTopics(nodes []Node, root Node, edges []Edge) []Node {
	return firstMatch(topicStrategies, nodes, root, edges)
}

// FindSubtopics returns a topic's direct children with the same fallbacks as FindTopics,
// except the level strategy also requires the parent reference.
func FindSubtopics(nodes []Node, topic Node, edges []Edge) []Node {
	return firstMatch(subtopicStrategies, nodes, topic, edges)
}

func firstMatch(strategies []childStrategy, nodes []Node, anchor Node, edges []Edge) []Node {
	for _, s := range strategies {
		if found, ok := s(nodes, anchor, edges); ok {
			return found
		}
	}
	return nil
}

func rootByMarker(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if strings.EqualFold(n.Type, "root") || n.IsRoot {
			return n, true
		}
	}
	return Node{}, false
}

func rootByLevel(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if n.HasLevel && n.Level == 0 {
			return n, true
		}
	}
	return Node{}, false
}

func rootByWellKnownID(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if n.ID == "central" || n.ID == "root" {
			return n, true
		}
	}
	return Node{}, false
}

func rootByShape(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if n.ParentID == "" && len(n.ChildIDs) > 0 {
			return n, true
		}
	}
	return Node{}, false
}

func byChildIDs(nodes []Node, anchor Node, _ []Edge) ([]Node, bool) {
	if len(anchor.ChildIDs) == 0 {
		return nil, false
	}
	idx := indexByID(nodes)
	out := make([]Node, 0, len(anchor.ChildIDs))
	seen := make(map[string]bool, len(anchor.ChildIDs))
	for _, id := range anchor.ChildIDs {
		n, ok := idx[id]
		if !ok || seen[id] || id == anchor.ID {
			continue
		}
		seen[id] = true
		out = append(out, n)
	}
	return out, len(out) > 0
}

func byParentRef(nodes []Node, anchor Node, _ []Edge) ([]Node, bool) {
	return filter(nodes, anchor, func(n Node) bool { return n.ParentID == anchor.ID })
}

func byLevel(level int) childStrategy {
	return func(nodes []Node, anchor Node, _ []Edge) ([]Node, bool) {
		return filter(nodes, anchor, func(n Node) bool { return n.HasLevel && n.Level == level })
	}
}

func byLevelAndParent(level int) childStrategy {
	return func(nodes []Node, anchor Node, _ []Edge) ([]Node, bool) {
		return filter(nodes, anchor, func(n Node) bool {
			return n.HasLevel && n.Level == level && n.ParentID == anchor.ID
		})
	}
}

func byEdges(nodes []Node, anchor Node, edges []Edge) ([]Node, bool) {
	if len(edges) == 0 {
		return nil, false
	}
	idx := indexByID(nodes)
	var out []Node
	seen := map[string]bool{}
	for _, e := range edges {
		if e.Source != anchor.ID || e.Target == anchor.ID || seen[e.Target] {
			continue
		}
		if n, ok := idx[e.Target]; ok {
			seen[e.Target] = true
			out = append(out, n)
		}
	}
	return out, len(out) > 0
}

func filter(nodes []Node, anchor Node, keep func(Node) bool) ([]Node, bool) {
	var out []Node
	seen := map[string]bool{}
	for _, n := range nodes {
		if n.ID == anchor.ID || seen[n.ID] || !keep(n) {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, len(out) > 0
}

func indexByID(nodes []Node) map[string]Node {
	idx := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if _, dup := idx[n.ID]; !dup {
			idx[n.ID] = n
		}
	}
	return idx
}
