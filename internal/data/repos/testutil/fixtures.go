package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/mindmap-backend/internal/types"
)

func SeedMindMap(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, subject string) *types.MindMap {
	tb.Helper()
	m := &types.MindMap{
		ID:        uuid.New(),
		UserID:    userID,
		Subject:   subject,
		Title:     subject,
		Source:    types.MindMapSourceIngest,
		Status:    types.MindMapStatusReady,
		Graph:     datatypes.JSON([]byte(`{"nodes":[],"edges":[]}`)),
		Raw:       datatypes.JSON([]byte(`{}`)),
		NodeCount: 1,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mind map: %v", err)
	}
	return m
}
