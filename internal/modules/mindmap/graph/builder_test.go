package graph

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustBuild(t *testing.T, raw any, subject string) *CanonicalGraph {
	t.Helper()
	res, err := Build(raw, subject)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.IsPassThrough() {
		t.Fatalf("Build passed input through, want graph")
	}
	if err := Validate(res.Graph); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return res.Graph
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return v
}

func TestBuildSimpleTwoLevelTree(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"central_node": {"title": "Biology"},
		"module_nodes": [
			{"title": "Unit I: Cells", "subtopics": [{"title": "3 hours Mitochondria"}]}
		]
	}`)
	g := mustBuild(t, raw, "Biology")

	if len(g.Nodes) != 3 {
		t.Fatalf("node count: got=%d want=3", len(g.Nodes))
	}
	root, _ := g.Node("central")
	if root.Label != "Biology" || root.Type != TypeRoot || root.Level != 0 || root.ParentID != nil {
		t.Fatalf("unexpected root: %+v", root)
	}
	topic, ok := g.Node("topic1")
	if !ok || topic.Label != "Cells" || *topic.ParentID != "central" || topic.Level != 1 {
		t.Fatalf("unexpected topic: %+v", topic)
	}
	sub, ok := g.Node("subtopic1_1")
	if !ok || sub.Label != "Mitochondria" || *sub.ParentID != "topic1" || sub.Level != 2 {
		t.Fatalf("unexpected subtopic: %+v", sub)
	}

	var edges []string
	for _, e := range g.Edges {
		edges = append(edges, e.SourceID+"->"+e.TargetID)
		if e.Kind != EdgeKindBezier {
			t.Fatalf("edge kind: got=%q want=%q", e.Kind, EdgeKindBezier)
		}
	}
	want := []string{"central->topic1", "topic1->subtopic1_1"}
	if !reflect.DeepEqual(edges, want) {
		t.Fatalf("edges: got=%v want=%v", edges, want)
	}
	if !root.HasChildren || !topic.HasChildren || sub.HasChildren {
		t.Fatalf("hasChildren flags wrong: root=%v topic=%v sub=%v", root.HasChildren, topic.HasChildren, sub.HasChildren)
	}
}

func TestBuildDeepNesting(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"central_node": {"title": "Physics"},
		"module_nodes": [{
			"title": "Mechanics",
			"subtopics": [{
				"title": "Kinematics",
				"sub_subtopics": [{
					"title": "Projectiles",
					"sub_sub_subtopics": [{"title": "Range equation"}]
				}]
			}]
		}]
	}`)
	g := mustBuild(t, raw, "")

	wantLevels := map[string]int{
		"topic1":        1,
		"subtopic1_1":   2,
		"level31_1_1":   3,
		"level41_1_1_1": 4,
	}
	wantParent := map[string]string{
		"topic1":        "central",
		"subtopic1_1":   "topic1",
		"level31_1_1":   "subtopic1_1",
		"level41_1_1_1": "level31_1_1",
	}
	for id, lvl := range wantLevels {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("missing node %q in %v", id, nodeIDs(g))
		}
		if n.Level != lvl {
			t.Fatalf("%s level: got=%d want=%d", id, n.Level, lvl)
		}
		if *n.ParentID != wantParent[id] {
			t.Fatalf("%s parent: got=%q want=%q", id, *n.ParentID, wantParent[id])
		}
	}
	if n, _ := g.Node("level41_1_1_1"); n.Type != "level4" {
		t.Fatalf("level 4 type: got=%q", n.Type)
	}
	if g.MaxLevel() != 4 {
		t.Fatalf("max level: got=%d want=4", g.MaxLevel())
	}
	if root, _ := g.Node(RootID); root.Label != "Physics" {
		t.Fatalf("root label should fall back to central title, got %q", root.Label)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	t.Parallel()

	src := `{
		"central_node": {"title": "Chemistry", "content": "Matter and change"},
		"modules": [
			{"title": "Atoms", "children": [{"title": "Protons"}, {"title": "Neutrons", "children": ["Isotopes", "Decay"]}]},
			{"title": "Bonds", "sub_topics": [{"title": "Ionic"}, {"title": "Covalent"}]}
		]
	}`
	a, err := BuildJSON([]byte(src), "Chemistry")
	if err != nil {
		t.Fatalf("BuildJSON: %v", err)
	}
	b, err := BuildJSON([]byte(src), "Chemistry")
	if err != nil {
		t.Fatalf("BuildJSON: %v", err)
	}
	ja, _ := json.Marshal(a.Graph)
	jb, _ := json.Marshal(b.Graph)
	if string(ja) != string(jb) {
		t.Fatalf("graphs differ between runs:\n%s\n%s", ja, jb)
	}
	if err := Validate(a.Graph); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuildPassThrough(t *testing.T) {
	t.Parallel()

	inputs := []any{
		nil,
		"just text",
		3.5,
		[]any{map[string]any{"title": "x"}},
		map[string]any{"unexpected": true},
		map[string]any{"module_nodes": []any{}},
	}
	for _, in := range inputs {
		res, err := Build(in, "X")
		if err != nil {
			t.Fatalf("Build(%v): unexpected error %v", in, err)
		}
		if !res.IsPassThrough() {
			t.Fatalf("Build(%v): want pass-through", in)
		}
		if !reflect.DeepEqual(res.PassThrough, in) {
			t.Fatalf("pass-through changed input: got=%v want=%v", res.PassThrough, in)
		}
	}
}

func TestBuildRejectsNonJSONValues(t *testing.T) {
	t.Parallel()

	_, err := Build(make(chan int), "X")
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Fatalf("got err=%v want ErrUnsupportedInput", err)
	}
	if _, err := BuildJSON([]byte("{not json"), "X"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestBuildRootFallbacks(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, map[string]any{"topics": []any{"Algebra"}}, "  ")
	root, _ := g.Node(RootID)
	if root.Label != DefaultRootLabel {
		t.Fatalf("root label: got=%q want=%q", root.Label, DefaultRootLabel)
	}
	if !strings.Contains(root.Content, DefaultRootLabel) {
		t.Fatalf("root content should mention the label, got %q", root.Content)
	}

	g = mustBuild(t, map[string]any{"central_node": map[string]any{"title": "Math", "description": "Numbers"}}, "")
	root, _ = g.Node(RootID)
	if root.Content != "Numbers" || len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Fatalf("unexpected single-root graph: %+v", g)
	}
}

func TestBuildTopicLabelFallback(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"central_node": {"title": "History"},
		"module_nodes": [
			{"title": "Unit IV"},
			{"content": "no title here"},
			{"title": "Module 3:"},
			{"title": "Revolutions"}
		]
	}`)
	g := mustBuild(t, raw, "History")

	want := map[string]string{
		"topic1": "Topic 4 Content",
		"topic2": "Topic 2 Content",
		"topic3": "Topic 3 Content",
		"topic4": "Revolutions",
	}
	for id, label := range want {
		n, ok := g.Node(id)
		if !ok || n.Label != label {
			t.Fatalf("%s label: got=%q want=%q", id, n.Label, label)
		}
	}
}

func TestBuildPrefersMostSpecificChildKey(t *testing.T) {
	t.Parallel()

	entry := map[string]any{
		"title":         "Optics",
		"subtopics":     []any{"generic"},
		"sub_subtopics": []any{"specific-a", "specific-b"},
		"children":      []any{},
	}
	kids := FindChildren(entry)
	if len(kids) != 2 || kids[0] != "specific-a" {
		t.Fatalf("FindChildren: got=%v", kids)
	}
	if FindChildren(map[string]any{"children": []any{}}) != nil {
		t.Fatalf("empty arrays must not match")
	}
	if FindChildren(map[string]any{"subtopics": "not an array"}) != nil {
		t.Fatalf("non-arrays must not match")
	}
}

func TestBuildLegacySubtopicNodes(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"central_node": {"title": "Art"},
		"module_nodes": [{"title": "Painting"}, {"title": "Sculpture"}],
		"subtopic_nodes": [
			{"title": "Marble", "parent_id": "topic2"},
			{"title": "Oil"},
			{"title": "Fresco"},
			{"title": "Bronze"},
			{"title": "Clay", "parent": "Sculpture"},
			{"title": "Watercolor", "topic_id": 1}
		]
	}`)
	res, err := Build(raw, "Art")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g := res.Graph
	if err := Validate(g); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Oil, Fresco, Bronze are unreferenced: ceil(3/2)=2 per topic, in order.
	wantChildren := map[string][]string{
		"topic1": {"Oil", "Fresco", "Watercolor"},
		"topic2": {"Marble", "Bronze", "Clay"},
	}
	for topicID, labels := range wantChildren {
		topic, _ := g.Node(topicID)
		var got []string
		for _, id := range topic.ChildIDs {
			n, _ := g.Node(id)
			got = append(got, n.Label)
			if n.Level != 2 {
				t.Fatalf("%s level: got=%d want=2", id, n.Level)
			}
		}
		if !reflect.DeepEqual(got, labels) {
			t.Fatalf("%s children: got=%v want=%v", topicID, got, labels)
		}
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "3 subtopic_nodes") {
		t.Fatalf("expected one split warning, got %v", res.Warnings)
	}
}

func TestBuildLegacyWithoutTopicsPromotes(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, map[string]any{
		"subtopic_nodes": []any{"One", "Two"},
	}, "Misc")
	if n, ok := g.Node("topic2"); !ok || n.Label != "Two" || n.Level != 1 {
		t.Fatalf("expected promoted topic2, got %+v (ok=%v)", n, ok)
	}
}

func TestBuildLayoutSeparatesSiblings(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"central_node": {"title": "Layout"},
		"module_nodes": [
			{"title": "A", "subtopics": ["A1", "A2", "A3"]},
			{"title": "B", "subtopics": ["B1", {"title": "B2", "children": ["B2a", "B2b"]}]},
			{"title": "C"}
		]
	}`)
	g := mustBuild(t, raw, "")

	byID := map[string]Node{}
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	for _, n := range g.Nodes {
		if n.ParentID != nil {
			p := byID[*n.ParentID]
			if n.Position.X <= p.Position.X {
				t.Fatalf("%s not to the right of parent", n.ID)
			}
		}
	}
	seen := map[[2]float64]string{}
	for _, n := range g.Nodes {
		key := [2]float64{n.Position.X, n.Position.Y}
		if other, dup := seen[key]; dup {
			t.Fatalf("%s and %s share position %v", n.ID, other, key)
		}
		seen[key] = n.ID
	}
}

func TestRowHeightNarrowsToFloor(t *testing.T) {
	t.Parallel()
	prev := rowHeight(1)
	if prev != baseRowHeight {
		t.Fatalf("rowHeight(1): got=%v want=%v", prev, baseRowHeight)
	}
	for level := 2; level <= 12; level++ {
		h := rowHeight(level)
		if h > prev {
			t.Fatalf("rowHeight(%d): got=%v grew from %v", level, h, prev)
		}
		if h < 70 {
			t.Fatalf("rowHeight(%d): got=%v below the 70px floor", level, h)
		}
		prev = h
	}
	if prev != 70 {
		t.Fatalf("rowHeight(12): got=%v want floor 70", prev)
	}
}

func TestCanonicalGraphJSONShape(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, map[string]any{"central_node": map[string]any{"title": "T"}, "topics": []any{"x1"}}, "T")
	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, frag := range []string{`"parentId":null`, `"childIds":["topic1"]`, `"source":"central"`, `"target":"topic1"`, `"type":"bezier"`} {
		if !strings.Contains(s, frag) {
			t.Fatalf("missing %s in %s", frag, s)
		}
	}
}

func TestValidateCatchesBrokenGraphs(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, decode(t, `{"central_node":{"title":"V"},"topics":[{"title":"a","children":["b"]}]}`), "")

	broken := *g
	broken.Edges = broken.Edges[:1]
	if err := Validate(&broken); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("missing edge: got err=%v", err)
	}

	broken = *g
	broken.Nodes = append([]Node(nil), g.Nodes...)
	missing := "nope"
	broken.Nodes[2].ParentID = &missing
	if err := Validate(&broken); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("dangling parent: got err=%v", err)
	}

	if err := Validate(nil); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("nil graph: got err=%v", err)
	}
}

func nodeIDs(g *CanonicalGraph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
