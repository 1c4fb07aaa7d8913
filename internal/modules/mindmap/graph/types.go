package graph

import "strconv"

const (
	RootID = "central"

	TypeRoot     = "root"
	TypeTopic    = "topic"
	TypeSubtopic = "subtopic"

	EdgeKindBezier = "bezier"

	DefaultRootLabel = "Central Topic"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one positioned mind-map node. ParentID is nil only for the root.
type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Level       int      `json:"level"`
	Position    Position `json:"position"`
	Content     string   `json:"content"`
	ParentID    *string  `json:"parentId"`
	ChildIDs    []string `json:"childIds"`
	HasChildren bool     `json:"hasChildren"`
}

type Edge struct {
	ID       string `json:"id"`
	SourceID string `json:"source"`
	TargetID string `json:"target"`
	Kind     string `json:"type"`
}

// CanonicalGraph is the normalized form of a generated mind map.
type CanonicalGraph struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

// Result is what Build produces. Exactly one of Graph and PassThrough is meaningful:
// when the input did not look like a mind map, Graph is nil and PassThrough holds the
// input unchanged.
type Result struct {
	Graph       *CanonicalGraph
	PassThrough any
	Warnings    []string
}

func (r Result) IsPassThrough() bool { return r.Graph == nil }

// TypeForLevel maps a tree depth to the node type label.
func TypeForLevel(level int) string {
	switch level {
	case 0:
		return TypeRoot
	case 1:
		return TypeTopic
	case 2:
		return TypeSubtopic
	default:
		return "level" + strconv.Itoa(level)
	}
}

func EdgeID(sourceID, targetID string) string {
	return "e-" + sourceID + "-" + targetID
}

// Node returns the node with the given id.
func (g *CanonicalGraph) Node(id string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// MaxLevel is the depth of the deepest node.
func (g *CanonicalGraph) MaxLevel() int {
	max := 0
	if g == nil {
		return max
	}
	for _, n := range g.Nodes {
		if n.Level > max {
			max = n.Level
		}
	}
	return max
}
