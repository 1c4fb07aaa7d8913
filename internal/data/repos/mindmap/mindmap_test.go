package mindmap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/mindmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/mindmap-backend/internal/platform/dbctx"
	"github.com/yungbote/mindmap-backend/internal/types"
)

func TestMindMapRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewMindMapRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	owner := uuid.New()

	created, err := repo.Create(dbc, &types.MindMap{
		UserID:  owner,
		Subject: "Biology",
		Title:   "Biology",
		Source:  types.MindMapSourceGenerate,
		Status:  types.MindMapStatusReady,
		Graph:   datatypes.JSON([]byte(`{"title":"Biology","nodes":[],"edges":[]}`)),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}

	got, err := repo.GetByID(dbc, owner, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Subject != "Biology" || len(got.Graph) == 0 {
		t.Fatalf("GetByID: unexpected row: %+v", got)
	}

	if _, err := repo.GetByID(dbc, uuid.New(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID (other user): got=%v want ErrNotFound", err)
	}

	if err := repo.Delete(dbc, uuid.New(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete (other user): got=%v want ErrNotFound", err)
	}
	if err := repo.Delete(dbc, owner, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(dbc, owner, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID (deleted): got=%v want ErrNotFound", err)
	}
	if err := repo.Delete(dbc, owner, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete (twice): got=%v want ErrNotFound", err)
	}
}

func TestMindMapRepoListByUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewMindMapRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	owner := uuid.New()

	older := testutil.SeedMindMap(t, ctx, tx, owner, "Chemistry")
	if err := tx.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("age row: %v", err)
	}
	newer := testutil.SeedMindMap(t, ctx, tx, owner, "Physics")
	testutil.SeedMindMap(t, ctx, tx, uuid.New(), "Not mine")

	rows, err := repo.ListByUser(dbc, owner, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListByUser: expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Fatalf("ListByUser: expected newest first, got %s then %s", rows[0].Subject, rows[1].Subject)
	}
	if len(rows[0].Graph) != 0 {
		t.Fatalf("ListByUser: summaries should not carry the graph payload")
	}

	limited, err := repo.ListByUser(dbc, owner, 1)
	if err != nil {
		t.Fatalf("ListByUser (limit): %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("ListByUser (limit): expected 1 row, got %d", len(limited))
	}

	none, err := repo.ListByUser(dbc, uuid.Nil, 10)
	if err != nil || len(none) != 0 {
		t.Fatalf("ListByUser (nil user): got=%v err=%v", none, err)
	}
}
