package sidebar

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/graph"
)

// Node is the reconstructor's view of a graph node. It is deliberately loose: legacy
// payloads may carry only a parent reference, only a child list, only a level, or any mix.
type Node struct {
	ID       string
	Label    string
	Type     string
	IsRoot   bool
	Level    int
	HasLevel bool
	ParentID string
	ChildIDs []string
}

type Edge struct {
	Source string
	Target string
}

// Input is a normalized reconstructor payload. LabelsClean marks labels that already went
// through the builder and must be shown as they are.
type Input struct {
	Nodes       []Node
	Edges       []Edge
	LabelsClean bool
}

var (
	wrapperKeys   = []string{"graph", "data", "mindmap", "mind_map", "mindMap"}
	labelKeys     = []string{"label", "title", "name"}
	parentRefKeys = []string{"parentId", "parentNode", "parent", "parent_id"}
	childListKeys = []string{"childIds", "children", "child_ids", "childNodes"}
	sourceKeys    = []string{"source", "sourceId", "from"}
	targetKeys    = []string{"target", "targetId", "to"}
)

// FromCanonical adapts a graph produced by the builder.
func FromCanonical(g *graph.CanonicalGraph) Input {
	if g == nil {
		return Input{}
	}
	in := Input{
		Nodes:       make([]Node, 0, len(g.Nodes)),
		Edges:       make([]Edge, 0, len(g.Edges)),
		LabelsClean: true,
	}
	for _, n := range g.Nodes {
		parent := ""
		if n.ParentID != nil {
			parent = *n.ParentID
		}
		in.Nodes = append(in.Nodes, Node{
			ID:       n.ID,
			Label:    n.Label,
			Type:     n.Type,
			IsRoot:   n.Type == graph.TypeRoot,
			Level:    n.Level,
			HasLevel: true,
			ParentID: parent,
			ChildIDs: append([]string(nil), n.ChildIDs...),
		})
	}
	for _, e := range g.Edges {
		in.Edges = append(in.Edges, Edge{Source: e.SourceID, Target: e.TargetID})
	}
	return in
}

// FromAny accepts a canonical graph, decoded JSON, or raw JSON bytes. The bool is false
// when no node list could be found.
func FromAny(v any) (Input, bool) {
	switch t := v.(type) {
	case nil:
		return Input{}, false
	case *graph.CanonicalGraph:
		in := FromCanonical(t)
		return in, len(in.Nodes) > 0
	case graph.CanonicalGraph:
		in := FromCanonical(&t)
		return in, len(in.Nodes) > 0
	case Input:
		return t, len(t.Nodes) > 0
	case []byte:
		return FromJSON(t)
	case json.RawMessage:
		return FromJSON(t)
	case []any:
		in := Input{Nodes: decodeNodes(t)}
		return in, len(in.Nodes) > 0
	case map[string]any:
		return fromObject(t, 0)
	default:
		return Input{}, false
	}
}

func FromJSON(data []byte) (Input, bool) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Input{}, false
	}
	return FromAny(v)
}

func fromObject(obj map[string]any, depth int) (Input, bool) {
	if nodes, ok := obj["nodes"].([]any); ok {
		in := Input{Nodes: decodeNodes(nodes)}
		if edges, ok := obj["edges"].([]any); ok {
			in.Edges = decodeEdges(edges)
		}
		return in, len(in.Nodes) > 0
	}
	if depth > 2 {
		return Input{}, false
	}
	for _, k := range wrapperKeys {
		if inner, ok := obj[k].(map[string]any); ok {
			if in, ok := fromObject(inner, depth+1); ok {
				return in, true
			}
		}
	}
	return Input{}, false
}

func decodeNodes(raw []any) []Node {
	out := make([]Node, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		id := scalarString(m["id"])
		if id == "" {
			continue
		}
		data, _ := m["data"].(map[string]any)

		n := Node{ID: id}
		n.Label = firstScalar(m, labelKeys)
		if n.Label == "" {
			n.Label = firstScalar(data, labelKeys)
		}
		n.Type = strings.TrimSpace(scalarString(m["type"]))
		n.IsRoot = boolValue(m["isRoot"]) || boolValue(data["isRoot"])
		if lvl, ok := intValue(m["level"]); ok {
			n.Level, n.HasLevel = lvl, true
		} else if lvl, ok := intValue(data["level"]); ok {
			n.Level, n.HasLevel = lvl, true
		}
		n.ParentID = firstScalar(m, parentRefKeys)
		if n.ParentID == "" {
			n.ParentID = firstScalar(data, parentRefKeys)
		}
		n.ChildIDs = firstIDList(m, childListKeys)
		if len(n.ChildIDs) == 0 {
			n.ChildIDs = firstIDList(data, childListKeys)
		}
		out = append(out, n)
	}
	return out
}

func decodeEdges(raw []any) []Edge {
	out := make([]Edge, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		e := Edge{Source: firstScalar(m, sourceKeys), Target: firstScalar(m, targetKeys)}
		if e.Source == "" || e.Target == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func firstScalar(m map[string]any, keys []string) string {
	if m == nil {
		return ""
	}
	for _, k := range keys {
		if s := scalarString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstIDList(m map[string]any, keys []string) []string {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		arr, ok := m[k].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		ids := make([]string, 0, len(arr))
		for _, v := range arr {
			if obj, ok := v.(map[string]any); ok {
				v = obj["id"]
			}
			if s := scalarString(v); s != "" {
				ids = append(ids, s)
			}
		}
		if len(ids) > 0 {
			return ids
		}
	}
	return nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	default:
		return 0, false
	}
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}
