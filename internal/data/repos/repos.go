package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mindmap-backend/internal/data/repos/mindmap"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

type MindMapRepo = mindmap.MindMapRepo

var ErrMindMapNotFound = mindmap.ErrNotFound

func NewMindMapRepo(db *gorm.DB, baseLog *logger.Logger) MindMapRepo {
	return mindmap.NewMindMapRepo(db, baseLog)
}
