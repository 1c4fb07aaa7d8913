package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/labels"
)

// ErrUnsupportedInput is returned for values that could never come out of JSON decoding
// (channels, funcs, arbitrary structs). Those are caller bugs, not bad model output.
var ErrUnsupportedInput = errors.New("graph: unsupported input type")

// Build converts a decoded model response into a canonical graph.
//
// Inputs that are nil, not objects, or objects with no central node and no topic
// collection are returned unchanged in Result.PassThrough; Build does
// not treat unexpected model output as an error.
func Build(raw any, subjectName string) (Result, error) {
	obj, ok, err := asObject(raw)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{PassThrough: raw}, nil
	}

	central, _ := obj[CentralKey].(map[string]any)
	topics := firstArray(obj, TopLevelKeys)
	if topics == nil && central != nil {
		topics = FindChildren(central)
	}
	legacy := firstArray(obj, []string{LegacySubtopics, "subtopicNodes"})
	if central == nil && topics == nil && legacy == nil {
		return Result{PassThrough: raw}, nil
	}

	b := newBuilder()
	rootID := b.addRoot(central, subjectName)
	topicIDs := b.addTopics(rootID, topics)
	if legacy != nil {
		b.distributeLegacy(rootID, legacy, topicIDs)
	}

	layout(b.arena)

	title := b.arena.get(rootID).Label
	if central != nil {
		if t := strings.TrimSpace(firstString(central, titleKeys)); t != "" {
			title = labels.Clean(t)
		}
	}
	return Result{
		Graph: &CanonicalGraph{
			Title:   title,
			Subject: strings.TrimSpace(subjectName),
			Nodes:   b.arena.nodes,
			Edges:   b.arena.edges,
		},
		Warnings: b.warnings,
	}, nil
}

// BuildJSON decodes data and builds it. Bytes that are not JSON at all are a caller
// error; valid JSON of the wrong shape is passed through.
func BuildJSON(data []byte, subjectName string) (Result, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{}, fmt.Errorf("graph: decode raw mind map: %w", err)
	}
	return Build(raw, subjectName)
}

func asObject(raw any) (map[string]any, bool, error) {
	switch v := raw.(type) {
	case nil:
		return nil, false, nil
	case map[string]any:
		return v, true, nil
	case []any, string, bool, float64, float32, int, int64, int32, json.Number:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%w: %T", ErrUnsupportedInput, raw)
	}
}

type builder struct {
	arena    *arena
	warnings []string
}

func newBuilder() *builder {
	return &builder{arena: newArena()}
}

func (b *builder) addRoot(central map[string]any, subjectName string) string {
	label := strings.TrimSpace(subjectName)
	if label == "" {
		if t := strings.TrimSpace(firstString(central, titleKeys)); t != "" {
			label = labels.Clean(t)
		}
	}
	if label == "" {
		label = DefaultRootLabel
	}
	content := strings.TrimSpace(firstString(central, contentKeys))
	if content == "" {
		content = "An overview of the key ideas in " + label + "."
	}
	return b.arena.add(Node{
		ID:      RootID,
		Label:   label,
		Type:    TypeRoot,
		Level:   0,
		Content: content,
	})
}

func (b *builder) addTopics(rootID string, entries []any) []string {
	ids := make([]string, 0, len(entries))
	for _, v := range entries {
		entry, ok := asEntry(v)
		if !ok {
			continue
		}
		n := len(ids) + 1
		rawTitle := firstString(entry, titleKeys)
		label := labels.Strip(rawTitle)
		if len([]rune(label)) < labels.MinLength {
			num := labels.Numeral(rawTitle)
			if num == "" {
				num = strconv.Itoa(n)
			}
			label = "Topic " + num + " Content"
		}
		id := b.arena.addChild(rootID, Node{
			ID:      "topic" + strconv.Itoa(n),
			Label:   label,
			Content: strings.TrimSpace(firstString(entry, contentKeys)),
		})
		ids = append(ids, id)
		if kids := FindChildren(entry); kids != nil {
			b.addChildren(id, kids)
		}
	}
	return ids
}

// addChildren emits one node per entry under parentID and recurses into whatever child
// collection each entry carries. There is no depth limit.
func (b *builder) addChildren(parentID string, entries []any) {
	for _, v := range entries {
		entry, ok := asEntry(v)
		if !ok {
			continue
		}
		parent := b.arena.get(parentID)
		level := parent.Level + 1
		index := len(parent.ChildIDs) + 1

		label := strings.TrimSpace(firstString(entry, titleKeys))
		if label == "" {
			label = fallbackChildLabel(level, index)
		} else {
			label = labels.Clean(label)
		}

		id := b.arena.addChild(parentID, Node{
			ID:      childID(*parent, level, index),
			Label:   label,
			Content: strings.TrimSpace(firstString(entry, contentKeys)),
		})
		if kids := FindChildren(entry); kids != nil {
			b.addChildren(id, kids)
		}
	}
}

func childID(parent Node, level, index int) string {
	kw := "subtopic"
	if level > 2 {
		kw = "level" + strconv.Itoa(level)
	}
	return kw + parentSuffix(parent) + "_" + strconv.Itoa(index)
}

// parentSuffix drops the parent's own level keyword: topic1 -> 1, subtopic1_2 -> 1_2,
// level31_2_1 -> 1_2_1.
func parentSuffix(parent Node) string {
	prefix := "level" + strconv.Itoa(parent.Level)
	switch parent.Level {
	case 1:
		prefix = "topic"
	case 2:
		prefix = "subtopic"
	}
	if rest, ok := strings.CutPrefix(parent.ID, prefix); ok && rest != "" {
		return sanitizeID(rest)
	}
	return sanitizeID(parent.ID)
}

func sanitizeID(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func fallbackChildLabel(level, index int) string {
	if level == 2 {
		return "Subtopic " + strconv.Itoa(index)
	}
	return "Item " + strconv.Itoa(index)
}
