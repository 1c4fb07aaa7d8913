// Package promptstyle wraps system prompts with the shared output contract every model
// call in the service follows.
package promptstyle

import "strings"

const Marker = "MINDMAP_PROMPT_STYLE_V1"

type Mode string

const (
	ModeJSON Mode = "json"
	ModeText Mode = "text"
)

// ApplySystem prepends the style block to system. It is idempotent and leaves an empty
// prompt empty.
func ApplySystem(system string, mode Mode) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, Marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(Marker)
	if first := firstLine(base); first != "" {
		b.WriteString("\nTask: " + first)
	}
	b.WriteString("\nFollow the system and user instructions exactly.")
	b.WriteString("\nDo not add analysis or commentary around the answer.")
	b.WriteString("\nDo not invent sources or citations.")
	if mode == ModeJSON {
		b.WriteString("\nReturn a single JSON object matching the schema, with no extra keys.")
	} else {
		b.WriteString("\nKeep answers short and structured.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}
