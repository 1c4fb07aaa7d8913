package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mindmap-backend/internal/data/db"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
	"github.com/yungbote/mindmap-backend/internal/platform/neo4jdb"
	"github.com/yungbote/mindmap-backend/internal/platform/openai"
	"github.com/yungbote/mindmap-backend/internal/platform/rediscache"
)

type Clients struct {
	DB     *gorm.DB
	Redis  *rediscache.Client
	Neo4j  *neo4jdb.Client
	OpenAI openai.Client
}

// wireClients opens the database (required) and the optional backends. A missing
// OpenAI key disables generation; an unreachable Redis or Neo4j is logged and skipped.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	var out Clients

	gdb, err := db.Open(log, cfg.DB())
	if err != nil {
		return Clients{}, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		return Clients{}, err
	}
	out.DB = gdb

	if out.Redis, err = rediscache.New(log, cfg.RedisCache()); err != nil {
		log.Warn("Redis unavailable; graph cache disabled", "error", err)
		out.Redis = nil
	}
	if out.Neo4j, err = neo4jdb.New(log, cfg.Neo4jDB()); err != nil {
		log.Warn("Neo4j unavailable; graph export disabled", "error", err)
		out.Neo4j = nil
	}

	out.OpenAI, err = openai.NewClient(log, cfg.OpenAIClient())
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		log.Warn("OPENAI_API_KEY not set; generation disabled")
		out.OpenAI = nil
	case err != nil:
		return Clients{}, fmt.Errorf("init openai: %w", err)
	}
	return out, nil
}

func (c Clients) Close(ctx context.Context, log *logger.Logger) {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("Redis close failed", "error", err)
		}
	}
	if c.Neo4j != nil {
		if err := c.Neo4j.Close(ctx); err != nil {
			log.Warn("Neo4j close failed", "error", err)
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
