package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/graph"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const rawMap = `{"central_node":{"title":"Physics"},"topics":[{"title":"Unit 1: Mechanics","subtopics":[{"title":"Kinematics"}]},{"title":"Optics"}]}`

func TestBuildSingleFileToStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "physics.json", rawMap)

	out, err := run(t, "build", in)
	if err != nil {
		t.Fatalf("build: %v (%s)", err, out)
	}
	var g graph.CanonicalGraph
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if g.Title != "Physics" || len(g.Nodes) != 4 {
		t.Fatalf("graph: title=%s nodes=%d", g.Title, len(g.Nodes))
	}
}

func TestBuildManyFilesReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "physics.json", rawMap)
	scalar := writeFile(t, dir, "scalar.json", `"hello"`)
	broken := writeFile(t, dir, "broken.json", `{`)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "build", "--out", outDir, "-c", "2", good, scalar, broken)
	if err == nil || !strings.Contains(err.Error(), "2 of 3") {
		t.Fatalf("build: err=%v want 2 of 3 failures\n%s", err, out)
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "physics.graph.json")); statErr != nil {
		t.Fatalf("expected physics.graph.json: %v", statErr)
	}
	if !strings.Contains(out, "not a mind map") {
		t.Fatalf("report should mention the pass-through file:\n%s", out)
	}
}

func TestBuildSameBaseNameDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	first := writeFile(t, filepath.Join(dir, "a"), "x.json", rawMap)
	second := writeFile(t, filepath.Join(dir, "b"), "x.json", strings.Replace(rawMap, "Physics", "Chemistry", 1))
	outDir := filepath.Join(dir, "out")

	if out, err := run(t, "build", "--out", outDir, "-c", "2", first, second); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	for name, want := range map[string]string{"x.graph.json": "Physics", "x-2.graph.json": "Chemistry"} {
		b, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var g graph.CanonicalGraph
		if err := json.Unmarshal(b, &g); err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if g.Title != want {
			t.Fatalf("%s: title got=%s want=%s", name, g.Title, want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths([]string{"a/x.json", "b/x.json", "c/y.yaml", "x.json"}, "out")
	want := []string{
		filepath.Join("out", "x.graph.json"),
		filepath.Join("out", "x-2.graph.json"),
		filepath.Join("out", "y.graph.json"),
		filepath.Join("out", "x-3.graph.json"),
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("outputPaths[%d]: got=%s want=%s", i, got[i], want[i])
		}
	}
}

func TestSidebarCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "legacy.json", `{"nodes":[
		{"id":"root","label":"Physics","type":"root"},
		{"id":"m","label":"Unit 1: Mechanics","parent":"root"},
		{"id":"k","label":"Kinematics","parent":"m"}]}`)

	out, err := run(t, "sidebar", "--json", in)
	if err != nil {
		t.Fatalf("sidebar: %v", err)
	}
	var topics []map[string]any
	if err := json.Unmarshal([]byte(out), &topics); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(topics) != 1 || topics[0]["title"] != "Mechanics" {
		t.Fatalf("sidebar: got=%v", topics)
	}
}

func TestCleanCommand(t *testing.T) {
	out, err := run(t, "clean", "Module 2: Thermodynamics (3 hours)", "Optics")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "Thermodynamics") || lines[1] != "Optics" {
		t.Fatalf("clean output:\n%s", out)
	}
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := run(t, "token"); err == nil {
		t.Fatalf("token: expected error without secret")
	}
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	out, err := run(t, "token", "--user", "00000000-0000-0000-0000-000000000042")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), ".") != 2 {
		t.Fatalf("token: not a JWT: %q", out)
	}
}
