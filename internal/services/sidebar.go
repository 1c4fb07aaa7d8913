package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/sidebar"
	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

// SidebarService rebuilds the topic tree from whatever graph payload a client holds,
// including legacy and React Flow shaped ones.
type SidebarService interface {
	Reconstruct(ctx context.Context, input any) []sidebar.Topic
}

type sidebarService struct {
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

func NewSidebarService(log *logger.Logger, metrics *observability.Metrics) SidebarService {
	return &sidebarService{
		log:     log.With("service", "SidebarService"),
		metrics: metrics,
		tracer:  observability.Tracer(),
	}
}

func (s *sidebarService) Reconstruct(ctx context.Context, input any) []sidebar.Topic {
	_, span := s.tracer.Start(ctx, "SidebarService.Reconstruct")
	defer span.End()

	topics := sidebar.Reconstruct(input)
	s.metrics.ObserveSidebar(len(topics))
	span.SetAttributes(attribute.Int("sidebar.topics", len(topics)))
	if len(topics) == 0 {
		s.log.Debug("Sidebar reconstruction found no topics")
	}
	return topics
}
