package app

import (
	"gorm.io/gorm"

	httpx "github.com/yungbote/mindmap-backend/internal/http"
	httpH "github.com/yungbote/mindmap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindmap-backend/internal/http/middleware"
	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, gdb *gorm.DB, svcs Services, metrics *observability.Metrics) httpx.RouterConfig {
	return httpx.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.ServiceName,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, svcs.Auth),
		MindMapHandler: httpH.NewMindMapHandler(log, svcs.MindMaps),
		SidebarHandler: httpH.NewSidebarHandler(log, svcs.Sidebar),
		HealthHandler:  httpH.NewHealthHandler(gdb),
	}
}
