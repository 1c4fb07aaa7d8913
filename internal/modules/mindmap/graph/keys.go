package graph

import "strings"

// ChildKeys lists the property names a generated entry may nest its children under,
// most deeply-named first. Some responses carry both a specific and a generic key on
// the same object; the specific one wins.
var ChildKeys = []string{
	"sub_sub_sub_sub_subtopics",
	"subSubSubSubSubtopics",
	"sub_sub_sub_subtopics",
	"subSubSubSubtopics",
	"sub_sub_subtopics",
	"subSubSubtopics",
	"sub_subtopics",
	"subSubtopics",
	"sub_topics",
	"subTopics",
	"subtopics",
	"children",
	"child_nodes",
	"childNodes",
	"nested_topics",
	"nestedTopics",
	"topics",
	"items",
}

// TopLevelKeys lists where the first tier of topics may live on the response object.
var TopLevelKeys = []string{
	"module_nodes",
	"moduleNodes",
	"modules",
	"topic_nodes",
	"topicNodes",
	"main_topics",
	"mainTopics",
	"topics",
	"units",
	"chapters",
}

const (
	CentralKey      = "central_node"
	LegacySubtopics = "subtopic_nodes"
)

var (
	titleKeys   = []string{"title", "name", "label", "topic", "heading"}
	contentKeys = []string{"content", "description", "summary", "details", "explanation"}
	parentKeys  = []string{"parent_id", "parentId", "parent", "topic_id", "topicId", "module_id", "moduleId", "parent_topic", "parentTopic"}
)

// FindChildren returns the first non-empty child collection on entry, or nil.
func FindChildren(entry map[string]any) []any {
	return firstArray(entry, ChildKeys)
}

func firstArray(obj map[string]any, keys []string) []any {
	if obj == nil {
		return nil
	}
	for _, k := range keys {
		if arr, ok := obj[k].([]any); ok && len(arr) > 0 {
			return arr
		}
	}
	return nil
}

func firstString(obj map[string]any, keys []string) string {
	if obj == nil {
		return ""
	}
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// asEntry normalizes one element of a child collection. Bare strings become titles;
// anything that is neither an object nor a string is skipped.
func asEntry(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, false
		}
		return map[string]any{"title": t}, true
	default:
		return nil, false
	}
}
