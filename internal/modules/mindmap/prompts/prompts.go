package prompts

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/yungbote/mindmap-backend/internal/platform/promptstyle"
)

const (
	MindMapSchemaName = "mind_map"
	MindMapVersion    = 1

	DefaultDepth = 3
	MaxDepth     = 5
)

var ErrMissingSubject = errors.New("prompts: subject required")

type Input struct {
	Subject      string
	Instructions string
	Depth        int
}

type Prompt struct {
	Name       string
	Version    int
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

// Fingerprint identifies the rendered prompt, stored alongside generated maps.
func (p Prompt) Fingerprint() string {
	h := sha256.Sum256([]byte(p.Name + "|" + strconv.Itoa(p.Version) + "|" + p.System + "|" + p.User))
	return hex.EncodeToString(h[:])
}

const mindMapSystem = `
You design study mind maps for a learning platform.
The central node names the subject. Topics are the main units of study, in teaching order.
Each topic breaks down into subtopics, and subtopics may break down further.
Titles are short noun phrases without numbering, bullets, or hour/credit annotations.
Content is one or two plain sentences a student can read in the sidebar.
Return JSON only.`

const mindMapUser = `
SUBJECT:
{{.Subject}}
{{if .Instructions}}
LEARNER NOTES:
{{.Instructions}}
{{end}}
Output rules:
- central_node.title is the subject as a learner would name it.
- 4-9 topics.
- 2-6 subtopics per topic.
- Nest at most {{.Depth}} levels below the central node; leave subtopics empty at the last level.`

var (
	systemTmpl = template.Must(template.New("system").Option("missingkey=zero").Parse(mindMapSystem))
	userTmpl   = template.Must(template.New("user").Option("missingkey=zero").Parse(mindMapUser))
)

// MindMap renders the prompt asking the model for a raw mind map.
func MindMap(in Input) (Prompt, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Instructions = strings.TrimSpace(in.Instructions)
	if in.Subject == "" {
		return Prompt{}, ErrMissingSubject
	}
	switch {
	case in.Depth <= 0:
		in.Depth = DefaultDepth
	case in.Depth > MaxDepth:
		in.Depth = MaxDepth
	}
	sys, err := render(systemTmpl, in)
	if err != nil {
		return Prompt{}, err
	}
	user, err := render(userTmpl, in)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Name:       "mind_map_generate",
		Version:    MindMapVersion,
		System:     promptstyle.ApplySystem(sys, promptstyle.ModeJSON),
		User:       user,
		SchemaName: MindMapSchemaName,
		Schema:     MindMapSchema(),
	}, nil
}

func render(t *template.Template, in Input) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, in); err != nil {
		return "", fmt.Errorf("prompts: render %s: %w", t.Name(), err)
	}
	return strings.TrimSpace(b.String()), nil
}
