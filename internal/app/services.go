package app

import (
	"github.com/yungbote/mindmap-backend/internal/data/repos"
	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
	"github.com/yungbote/mindmap-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	MindMaps services.MindMapService
	Sidebar  services.SidebarService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) Services {
	deps := services.MindMapServiceDeps{
		Repo:     repos.NewMindMapRepo(clients.DB, log),
		Metrics:  metrics,
		CacheTTL: cfg.Redis.CacheTTL,
	}
	// Typed nil pointers must not leak into the interfaces.
	if clients.OpenAI != nil {
		deps.LLM = clients.OpenAI
	}
	if clients.Redis != nil {
		deps.Cache = clients.Redis
	}
	if clients.Neo4j != nil {
		deps.Exporter = clients.Neo4j
	}
	return Services{
		Auth:     services.NewAuthService(log, cfg.AuthService()),
		MindMaps: services.NewMindMapService(log, deps),
		Sidebar:  services.NewSidebarService(log, metrics),
	}
}
