package promptstyle

import (
	"strings"
	"testing"
)

func TestApplySystem(t *testing.T) {
	got := ApplySystem("\n  Build a map.\nMore rules.", ModeJSON)
	if !strings.HasPrefix(got, Marker) {
		t.Fatalf("missing marker: %q", got)
	}
	if !strings.Contains(got, "Task: Build a map.") || !strings.Contains(got, "single JSON object") {
		t.Fatalf("style block: %q", got)
	}
	if !strings.HasSuffix(got, "Build a map.\nMore rules.") {
		t.Fatalf("original prompt should follow the block: %q", got)
	}
	if again := ApplySystem(got, ModeJSON); again != got {
		t.Fatalf("not idempotent")
	}
	if ApplySystem("   ", ModeText) != "" {
		t.Fatalf("empty prompt should stay empty")
	}
	if txt := ApplySystem("Explain.", ModeText); strings.Contains(txt, "JSON") {
		t.Fatalf("text mode mentions JSON: %q", txt)
	}
}
