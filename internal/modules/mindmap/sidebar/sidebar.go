// Package sidebar rebuilds the two-level topic/subtopic navigation from a mind-map graph.
//
// Graphs reach the client in more than one shape (childIds, parentId, react-flow style
// parentNode, bare parent), so each lookup is an ordered chain of strategies and the
// first one that finds something wins. Only topics and their direct subtopics are
// surfaced; deeper levels stay in the graph but are not part of the sidebar.
package sidebar

import (
	"regexp"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/labels"
)

// fallbackLabelRe matches the labels the builder synthesizes for untitled entries.
var fallbackLabelRe = regexp.MustCompile(`^(?:Topic \S+ Content|Subtopic \d+|Item \d+)$`)

type Subtopic struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	IsRead bool   `json:"isRead"`
}

type Topic struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	IsRead    bool       `json:"isRead"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Reconstruct derives the sidebar from input (see FromAny for accepted shapes). It never
// panics and returns an empty, non-nil slice when nothing usable is found.
func Reconstruct(input any) (out []Topic) {
	defer func() {
		if r := recover(); r != nil {
			out = []Topic{}
		}
	}()
	in, ok := FromAny(input)
	if !ok {
		return []Topic{}
	}
	return FromInput(in)
}

// FromInput runs the root, topic and subtopic chains over an already-normalized input.
func FromInput(in Input) []Topic {
	if len(in.Nodes) == 0 {
		return []Topic{}
	}
	root, ok := FindRoot(in.Nodes)
	if !ok {
		return []Topic{}
	}
	topics := FindTopics(in.Nodes, root, in.Edges)
	if len(topics) == 0 {
		return []Topic{}
	}

	out := make([]Topic, 0, len(topics))
	for _, t := range topics {
		subs := FindSubtopics(in.Nodes, t, in.Edges)
		st := make([]Subtopic, 0, len(subs))
		for _, s := range subs {
			st = append(st, Subtopic{ID: s.ID, Title: title(s, in.LabelsClean)})
		}
		out = append(out, Topic{ID: t.ID, Title: title(t, in.LabelsClean), Subtopics: st})
	}
	return out
}

func title(n Node, clean bool) string {
	if n.Label == "" {
		return n.ID
	}
	if clean || fallbackLabelRe.MatchString(n.Label) {
		return n.Label
	}
	return labels.Clean(n.Label)
}
