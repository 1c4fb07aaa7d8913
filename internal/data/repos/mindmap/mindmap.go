package mindmap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindmap-backend/internal/platform/dbctx"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
	"github.com/yungbote/mindmap-backend/internal/types"
)

var ErrNotFound = errors.New("mind map not found")

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// summaryColumns leaves out the graph and raw payloads, which can be large.
var summaryColumns = []string{
	"id", "user_id", "subject", "title", "source", "status",
	"node_count", "topic_count", "max_depth", "model", "prompt_fingerprint",
	"created_at", "updated_at",
}

type MindMapRepo interface {
	Create(dbc dbctx.Context, row *types.MindMap) (*types.MindMap, error)
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.MindMap, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.MindMap, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) error
}

type mindMapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMindMapRepo(db *gorm.DB, baseLog *logger.Logger) MindMapRepo {
	return &mindMapRepo{db: db, log: baseLog.With("repo", "MindMapRepo")}
}

func (r *mindMapRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *mindMapRepo) Create(dbc dbctx.Context, row *types.MindMap) (*types.MindMap, error) {
	if row == nil {
		return nil, errors.New("mind map row required")
	}
	if row.UserID == uuid.Nil {
		return nil, errors.New("mind map user id required")
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		r.log.Error("create mind map failed", "user_id", row.UserID, "error", err)
		return nil, fmt.Errorf("create mind map: %w", err)
	}
	return row, nil
}

// GetByID is scoped to the owner; another user's map reads as ErrNotFound.
func (r *mindMapRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.MindMap, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, ErrNotFound
	}
	var row types.MindMap
	err := r.tx(dbc).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ListByUser returns summaries, newest first.
func (r *mindMapRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.MindMap, error) {
	if userID == uuid.Nil {
		return []*types.MindMap{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	var rows []*types.MindMap
	err := r.tx(dbc).
		Select(summaryColumns).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *mindMapRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return ErrNotFound
	}
	res := r.tx(dbc).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.MindMap{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
