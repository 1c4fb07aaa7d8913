package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mindmap-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.MindMap{},
	); err != nil {
		return fmt.Errorf("db: automigrate: %w", err)
	}
	return nil
}
