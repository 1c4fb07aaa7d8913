package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mindmap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindmap-backend/internal/http/middleware"
	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	MindMapHandler *httpH.MindMapHandler
	SidebarHandler *httpH.SidebarHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "mindmap"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Mind maps
		if cfg.MindMapHandler != nil {
			protected.POST("/mindmaps/generate", cfg.MindMapHandler.Generate)
			protected.POST("/mindmaps/preview", cfg.MindMapHandler.Preview)
			protected.POST("/mindmaps", cfg.MindMapHandler.Create)
			protected.GET("/mindmaps", cfg.MindMapHandler.List)
			protected.GET("/mindmaps/:id", cfg.MindMapHandler.Get)
			protected.GET("/mindmaps/:id/sidebar", cfg.MindMapHandler.Sidebar)
			protected.DELETE("/mindmaps/:id", cfg.MindMapHandler.Delete)
		}

		// Sidebar
		if cfg.SidebarHandler != nil {
			protected.POST("/sidebar", cfg.SidebarHandler.Reconstruct)
		}
	}

	return r
}
