package services

import (
	"context"
	"testing"

	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

func TestSidebarServiceReconstruct(t *testing.T) {
	t.Parallel()
	svc := NewSidebarService(logger.Nop(), observability.New("sidebartest"))

	legacy := map[string]any{
		"nodes": []any{
			map[string]any{"id": "root", "label": "Physics", "type": "root"},
			map[string]any{"id": "a", "label": "1. Mechanics", "parent": "root"},
			map[string]any{"id": "a1", "label": "Kinematics", "parent": "a"},
		},
	}
	topics := svc.Reconstruct(context.Background(), legacy)
	if len(topics) != 1 || topics[0].Title != "Mechanics" {
		t.Fatalf("Reconstruct: got=%+v", topics)
	}
	if len(topics[0].Subtopics) != 1 || topics[0].Subtopics[0].ID != "a1" {
		t.Fatalf("Reconstruct subtopics: got=%+v", topics[0].Subtopics)
	}

	if got := svc.Reconstruct(context.Background(), "not a graph"); got == nil || len(got) != 0 {
		t.Fatalf("Reconstruct (scalar): got=%v want empty", got)
	}
}
