package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	httpx "github.com/yungbote/mindmap-backend/internal/http"
	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics
	Server   *httpx.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel())
	metrics := observability.Init(cfg.Metrics.Namespace, cfg.Metrics.Enabled)

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	svcs := wireServices(log, cfg, clients, metrics)
	server := httpx.NewServer(wireRouterConfig(log, cfg, clients.DB, svcs, metrics))

	log.Info("App initialized",
		"env", cfg.Environment,
		"db_driver", cfg.Database.Driver,
		"cache", clients.Redis != nil,
		"graph_export", clients.Neo4j != nil,
		"generation", clients.OpenAI != nil,
		"metrics", metrics != nil,
	)
	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Services:     svcs,
		Metrics:      metrics,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(ctx, addr, a.Cfg.ShutdownTimeout)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Clients.Close(ctx, a.Log)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
