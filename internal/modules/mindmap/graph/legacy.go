package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/labels"
)

// distributeLegacy attaches a flat subtopic_nodes collection to the topics. Entries that
// name their topic go there; the rest are split into equal consecutive runs across the
// topics in order. The split is positional only and does not reflect meaning, so it is
// reported in the warnings.
func (b *builder) distributeLegacy(rootID string, entries []any, topicIDs []string) {
	if len(topicIDs) == 0 {
		b.warnings = append(b.warnings, fmt.Sprintf("%d subtopic_nodes entries had no topics to attach to; promoted to topics", len(entries)))
		b.addTopics(rootID, entries)
		return
	}

	assigned := make([]string, len(entries))
	var unresolved []int
	for i, v := range entries {
		entry, ok := asEntry(v)
		if !ok {
			continue
		}
		if id, ok := b.resolveTopic(entry, topicIDs); ok {
			assigned[i] = id
			continue
		}
		unresolved = append(unresolved, i)
	}

	if len(unresolved) > 0 {
		chunk := int(math.Ceil(float64(len(unresolved)) / float64(len(topicIDs))))
		for k, i := range unresolved {
			assigned[i] = topicIDs[k/chunk]
		}
		b.warnings = append(b.warnings, fmt.Sprintf(
			"%d subtopic_nodes entries had no parent reference; split evenly across %d topics by position",
			len(unresolved), len(topicIDs),
		))
	}

	for _, id := range topicIDs {
		var group []any
		for i, v := range entries {
			if assigned[i] == id {
				group = append(group, v)
			}
		}
		if len(group) > 0 {
			b.addChildren(id, group)
		}
	}
}

func (b *builder) resolveTopic(entry map[string]any, topicIDs []string) (string, bool) {
	for _, k := range parentKeys {
		v, ok := entry[k]
		if !ok || v == nil {
			continue
		}
		switch ref := v.(type) {
		case string:
			if id, ok := b.topicByRef(strings.TrimSpace(ref), topicIDs); ok {
				return id, true
			}
		case float64:
			if id, ok := topicByNumber(int(ref), topicIDs); ok && ref == math.Trunc(ref) {
				return id, true
			}
		}
	}
	return "", false
}

func (b *builder) topicByRef(ref string, topicIDs []string) (string, bool) {
	if ref == "" {
		return "", false
	}
	for _, id := range topicIDs {
		if id == ref {
			return id, true
		}
	}
	cleaned := strings.ToLower(labels.Clean(ref))
	for _, id := range topicIDs {
		n := b.arena.get(id)
		if n != nil && strings.ToLower(n.Label) == cleaned {
			return id, true
		}
	}
	if num, err := strconv.Atoi(ref); err == nil {
		return topicByNumber(num, topicIDs)
	}
	return "", false
}

func topicByNumber(num int, topicIDs []string) (string, bool) {
	if num < 1 || num > len(topicIDs) {
		return "", false
	}
	return topicIDs[num-1], true
}
