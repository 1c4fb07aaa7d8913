package neo4jdb

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/graph"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

func TestExportParams(t *testing.T) {
	t.Parallel()
	res, err := graph.Build(map[string]any{
		"central_node": map[string]any{"title": "Art"},
		"topics":       []any{"Painting", "Sculpture"},
	}, "")
	if err != nil || res.Graph == nil {
		t.Fatalf("Build: res=%+v err=%v", res, err)
	}
	nodes, edges := exportParams(res.Graph)
	if len(nodes) != 3 || len(edges) != 2 {
		t.Fatalf("exportParams: nodes=%d edges=%d want 3/2", len(nodes), len(edges))
	}
	root := nodes[0].(map[string]any)
	if root["id"] != graph.RootID || root["level"] != int64(0) {
		t.Fatalf("root params: got=%v", root)
	}
	e := edges[0].(map[string]any)
	if e["source"] != graph.RootID || e["target"] != "topic1" || e["id"] != graph.EdgeID(graph.RootID, "topic1") {
		t.Fatalf("edge params: got=%v", e)
	}
}

func TestDisconnectedClient(t *testing.T) {
	t.Parallel()
	var c *Client
	if err := c.ExportGraph(context.Background(), "m", &graph.CanonicalGraph{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("ExportGraph: got=%v want ErrNotConnected", err)
	}
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, err := New(logger.Nop(), Config{})
	if got != nil || err != nil {
		t.Fatalf("New(empty): got=(%v, %v) want=(nil, nil)", got, err)
	}
}
