package prompts

import (
	"errors"
	"strings"
	"testing"
)

func TestMindMapRendersSubjectAndDepth(t *testing.T) {
	t.Parallel()
	p, err := MindMap(Input{Subject: "  Organic Chemistry ", Instructions: "exam in two weeks", Depth: 9})
	if err != nil {
		t.Fatalf("MindMap: %v", err)
	}
	if !strings.Contains(p.User, "Organic Chemistry") || !strings.Contains(p.User, "exam in two weeks") {
		t.Fatalf("user prompt missing inputs:\n%s", p.User)
	}
	if !strings.Contains(p.User, "at most 5 levels") {
		t.Fatalf("depth not clamped:\n%s", p.User)
	}
	if p.SchemaName != MindMapSchemaName || p.Schema == nil {
		t.Fatalf("schema: name=%q schema=%v", p.SchemaName, p.Schema)
	}
}

func TestMindMapOmitsEmptyNotes(t *testing.T) {
	t.Parallel()
	p, err := MindMap(Input{Subject: "Art"})
	if err != nil {
		t.Fatalf("MindMap: %v", err)
	}
	if !strings.HasPrefix(p.System, "MINDMAP_PROMPT_STYLE_V1") {
		t.Fatalf("system prompt not styled:\n%s", p.System)
	}
	if strings.Contains(p.User, "LEARNER NOTES") {
		t.Fatalf("empty notes rendered:\n%s", p.User)
	}
	if !strings.Contains(p.User, "at most 3 levels") {
		t.Fatalf("default depth missing:\n%s", p.User)
	}
}

func TestMindMapRequiresSubject(t *testing.T) {
	t.Parallel()
	if _, err := MindMap(Input{Subject: "   "}); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("MindMap: got=%v want ErrMissingSubject", err)
	}
}

func TestFingerprintStable(t *testing.T) {
	t.Parallel()
	a, _ := MindMap(Input{Subject: "Art"})
	b, _ := MindMap(Input{Subject: "Art"})
	c, _ := MindMap(Input{Subject: "Music"})
	if a.Fingerprint() != b.Fingerprint() || a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("fingerprint: a=%s b=%s c=%s", a.Fingerprint(), b.Fingerprint(), c.Fingerprint())
	}
}
