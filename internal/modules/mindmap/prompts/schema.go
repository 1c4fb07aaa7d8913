package prompts

// MindMapSchema is the strict JSON schema for a raw mind map. Nodes recurse through
// "subtopics", which the graph builder recognizes as a child list.
func MindMapSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"central_node", "topics"},
		"properties": map[string]any{
			"central_node": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"title", "content"},
				"properties": map[string]any{
					"title":   map[string]any{"type": "string"},
					"content": map[string]any{"type": "string"},
				},
			},
			"topics": map[string]any{
				"type":  "array",
				"items": map[string]any{"$ref": "#/$defs/node"},
			},
		},
		"$defs": map[string]any{
			"node": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"title", "content", "subtopics"},
				"properties": map[string]any{
					"title":   map[string]any{"type": "string"},
					"content": map[string]any{"type": "string"},
					"subtopics": map[string]any{
						"type":  "array",
						"items": map[string]any{"$ref": "#/$defs/node"},
					},
				},
			},
		},
	}
}
