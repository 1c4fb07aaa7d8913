package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/yungbote/mindmap-backend/internal/data/repos"
	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/graph"
	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/prompts"
	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/sidebar"
	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/apierr"
	"github.com/yungbote/mindmap-backend/internal/platform/dbctx"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
	"github.com/yungbote/mindmap-backend/internal/platform/openai"
	"github.com/yungbote/mindmap-backend/internal/types"
)

const (
	BuildSourceGenerate = types.MindMapSourceGenerate
	BuildSourceIngest   = types.MindMapSourceIngest
	BuildSourcePreview  = "preview"
	BuildSourceCLI      = "cli"

	defaultCacheTTL = 15 * time.Minute
)

// GraphCache is satisfied by *rediscache.Client.
type GraphCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GraphExporter is satisfied by *neo4jdb.Client.
type GraphExporter interface {
	ExportGraph(ctx context.Context, mapID string, g *graph.CanonicalGraph) error
	DeleteGraph(ctx context.Context, mapID string) error
}

type GenerateInput struct {
	Subject      string
	Instructions string
	Depth        int
}

type IngestInput struct {
	Subject string
	Raw     any
}

// MindMapView is a stored or previewed map. For pass-through maps Graph is nil and
// PassThrough holds the input exactly as received.
type MindMapView struct {
	MindMap     *types.MindMap
	Graph       *graph.CanonicalGraph
	PassThrough any
	Sidebar     []sidebar.Topic
	Warnings    []string
}

func (v *MindMapView) IsPassThrough() bool { return v != nil && v.Graph == nil }

type MindMapService interface {
	Generate(ctx context.Context, userID uuid.UUID, in GenerateInput) (*MindMapView, error)
	Ingest(ctx context.Context, userID uuid.UUID, in IngestInput) (*MindMapView, error)
	Preview(ctx context.Context, subject string, raw any) (*MindMapView, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*MindMapView, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.MindMap, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Sidebar(ctx context.Context, userID, id uuid.UUID) ([]sidebar.Topic, error)
}

// MindMapServiceDeps lists collaborators. LLM, Cache and Exporter are optional.
type MindMapServiceDeps struct {
	Repo     repos.MindMapRepo
	LLM      openai.Client
	Cache    GraphCache
	Exporter GraphExporter
	Metrics  *observability.Metrics
	CacheTTL time.Duration
}

type mindMapService struct {
	log      *logger.Logger
	repo     repos.MindMapRepo
	llm      openai.Client
	cache    GraphCache
	exporter GraphExporter
	metrics  *observability.Metrics
	cacheTTL time.Duration
	tracer   trace.Tracer
}

func NewMindMapService(log *logger.Logger, deps MindMapServiceDeps) MindMapService {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &mindMapService{
		log:      log.With("service", "MindMapService"),
		repo:     deps.Repo,
		llm:      deps.LLM,
		cache:    deps.Cache,
		exporter: deps.Exporter,
		metrics:  deps.Metrics,
		cacheTTL: ttl,
		tracer:   observability.Tracer(),
	}
}

func (s *mindMapService) Generate(ctx context.Context, userID uuid.UUID, in GenerateInput) (*MindMapView, error) {
	ctx, span := s.tracer.Start(ctx, "MindMapService.Generate", trace.WithAttributes(
		attribute.String("mindmap.subject", in.Subject),
		attribute.Int("mindmap.depth", in.Depth),
	))
	defer span.End()

	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	p, err := prompts.MindMap(prompts.Input{Subject: in.Subject, Instructions: in.Instructions, Depth: in.Depth})
	if err != nil {
		return nil, apierr.BadRequest("invalid_subject", err)
	}
	if s.llm == nil {
		return nil, apierr.Unavailable("generation_unavailable", errors.New("model client not configured"))
	}

	raw, err := s.llm.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate")
		s.log.Warn("Mind map generation failed", "subject", in.Subject, "error", err)
		if errors.Is(err, openai.ErrCircuitOpen) {
			return nil, apierr.Unavailable("model_unavailable", err)
		}
		return nil, apierr.New(http.StatusBadGateway, "generation_failed", err)
	}

	view, err := s.build(ctx, BuildSourceGenerate, in.Subject, raw)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, userID, BuildSourceGenerate, in.Subject, raw, view, s.llm.Model(), p.Fingerprint()); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *mindMapService) Ingest(ctx context.Context, userID uuid.UUID, in IngestInput) (*MindMapView, error) {
	ctx, span := s.tracer.Start(ctx, "MindMapService.Ingest")
	defer span.End()

	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	view, err := s.build(ctx, BuildSourceIngest, in.Subject, in.Raw)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, userID, BuildSourceIngest, in.Subject, in.Raw, view, "", ""); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *mindMapService) Preview(ctx context.Context, subject string, raw any) (*MindMapView, error) {
	ctx, span := s.tracer.Start(ctx, "MindMapService.Preview")
	defer span.End()
	return s.build(ctx, BuildSourcePreview, subject, raw)
}

func (s *mindMapService) build(ctx context.Context, source, subject string, raw any) (*MindMapView, error) {
	span := trace.SpanFromContext(ctx)
	start := time.Now()

	res, err := graph.Build(raw, subject)
	if err != nil {
		s.metrics.ObserveBuild(source, "error", time.Since(start), 0, 0, 0)
		span.RecordError(err)
		return nil, apierr.BadRequest("unsupported_input", err)
	}
	if res.IsPassThrough() {
		s.metrics.ObserveBuild(source, "passthrough", time.Since(start), 0, 0, 0)
		span.SetAttributes(attribute.Bool("mindmap.passthrough", true))
		return &MindMapView{PassThrough: res.PassThrough, Sidebar: []sidebar.Topic{}}, nil
	}
	if err := graph.Validate(res.Graph); err != nil {
		s.metrics.ObserveBuild(source, "error", time.Since(start), 0, 0, 0)
		span.RecordError(err)
		s.log.Error("Built graph failed validation", "source", source, "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "invalid_graph", err)
	}

	depth := res.Graph.MaxLevel()
	s.metrics.ObserveBuild(source, "built", time.Since(start), len(res.Graph.Nodes), depth, len(res.Warnings))
	span.SetAttributes(
		attribute.Int("mindmap.nodes", len(res.Graph.Nodes)),
		attribute.Int("mindmap.depth", depth),
	)
	for _, w := range res.Warnings {
		s.log.Warn("Mind map build warning", "source", source, "warning", w)
	}

	topics := sidebar.Reconstruct(res.Graph)
	s.metrics.ObserveSidebar(len(topics))
	return &MindMapView{Graph: res.Graph, Sidebar: topics, Warnings: res.Warnings}, nil
}

func (s *mindMapService) persist(
	ctx context.Context,
	userID uuid.UUID,
	source, subject string,
	raw any,
	view *MindMapView,
	model, fingerprint string,
) error {
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return apierr.BadRequest("unsupported_input", fmt.Errorf("encode raw mind map: %w", err))
	}
	row := &types.MindMap{
		UserID:            userID,
		Subject:           strings.TrimSpace(subject),
		Source:            source,
		Status:            types.MindMapStatusPassThrough,
		Raw:               datatypes.JSON(rawJSON),
		Model:             model,
		PromptFingerprint: fingerprint,
	}
	if !view.IsPassThrough() {
		graphJSON, err := json.Marshal(view.Graph)
		if err != nil {
			return fmt.Errorf("encode graph: %w", err)
		}
		row.Status = types.MindMapStatusReady
		row.Title = view.Graph.Title
		row.Graph = datatypes.JSON(graphJSON)
		row.NodeCount = len(view.Graph.Nodes)
		row.TopicCount = len(view.Sidebar)
		row.MaxDepth = view.Graph.MaxLevel()
	}
	if row.Title == "" {
		row.Title = row.Subject
	}
	if len(view.Warnings) > 0 {
		if b, err := json.Marshal(view.Warnings); err == nil {
			row.Warnings = datatypes.JSON(b)
		}
	}

	created, err := s.repo.Create(dbctx.New(ctx), row)
	if err != nil {
		return apierr.New(http.StatusInternalServerError, "persist_failed", err)
	}
	view.MindMap = created
	s.log.Info("Mind map stored",
		"mind_map_id", created.ID.String(),
		"user_id", userID.String(),
		"source", source,
		"status", created.Status,
		"nodes", created.NodeCount,
	)

	s.afterWrite(ctx, created, view.Graph)
	return nil
}

// afterWrite fills the cache and exports the graph concurrently. Both sinks are best
// effort: failures are logged and counted, never returned.
func (s *mindMapService) afterWrite(ctx context.Context, row *types.MindMap, g *graph.CanonicalGraph) {
	var eg errgroup.Group
	if s.cache != nil {
		eg.Go(func() error {
			s.cachePut(ctx, row)
			return nil
		})
	}
	if s.exporter != nil && g != nil {
		eg.Go(func() error {
			if err := s.exporter.ExportGraph(ctx, row.ID.String(), g); err != nil {
				s.metrics.ObserveExport("neo4j", "error")
				s.log.Warn("Graph export failed", "mind_map_id", row.ID.String(), "error", err)
				return nil
			}
			s.metrics.ObserveExport("neo4j", "ok")
			return nil
		})
	}
	_ = eg.Wait()
}

func cacheKey(userID, id uuid.UUID) string {
	return "map:" + userID.String() + ":" + id.String()
}

func (s *mindMapService) cachePut(ctx context.Context, row *types.MindMap) {
	b, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(row.UserID, row.ID), b, s.cacheTTL); err != nil {
		s.metrics.ObserveCache("set", "error")
		s.log.Warn("Graph cache write failed", "mind_map_id", row.ID.String(), "error", err)
		return
	}
	s.metrics.ObserveCache("set", "ok")
}

func (s *mindMapService) cacheGet(ctx context.Context, userID, id uuid.UUID) (*types.MindMap, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, cacheKey(userID, id))
	switch {
	case err != nil:
		s.metrics.ObserveCache("get", "error")
		s.log.Warn("Graph cache read failed", "mind_map_id", id.String(), "error", err)
		return nil, false
	case !ok:
		s.metrics.ObserveCache("get", "miss")
		return nil, false
	}
	var row types.MindMap
	if err := json.Unmarshal(b, &row); err != nil || row.ID != id || row.UserID != userID {
		s.metrics.ObserveCache("get", "corrupt")
		return nil, false
	}
	s.metrics.ObserveCache("get", "hit")
	return &row, true
}

func (s *mindMapService) load(ctx context.Context, userID, id uuid.UUID) (*types.MindMap, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if row, ok := s.cacheGet(ctx, userID, id); ok {
		return row, nil
	}
	row, err := s.repo.GetByID(dbctx.New(ctx), userID, id)
	if err != nil {
		if errors.Is(err, repos.ErrMindMapNotFound) {
			return nil, apierr.NotFound("mind_map_not_found", err)
		}
		return nil, apierr.New(http.StatusInternalServerError, "load_mind_map_failed", err)
	}
	if s.cache != nil {
		s.cachePut(ctx, row)
	}
	return row, nil
}

func (s *mindMapService) Get(ctx context.Context, userID, id uuid.UUID) (*MindMapView, error) {
	ctx, span := s.tracer.Start(ctx, "MindMapService.Get")
	defer span.End()

	row, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return viewFromRow(row)
}

func viewFromRow(row *types.MindMap) (*MindMapView, error) {
	view := &MindMapView{MindMap: row, Sidebar: []sidebar.Topic{}}
	if len(row.Warnings) > 0 {
		_ = json.Unmarshal(row.Warnings, &view.Warnings)
	}
	if row.IsPassThrough() || len(row.Graph) == 0 {
		if len(row.Raw) > 0 {
			_ = json.Unmarshal(row.Raw, &view.PassThrough)
		}
		return view, nil
	}
	var g graph.CanonicalGraph
	if err := json.Unmarshal(row.Graph, &g); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "decode_graph_failed", err)
	}
	view.Graph = &g
	view.Sidebar = sidebar.Reconstruct(&g)
	return view, nil
}

func (s *mindMapService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.MindMap, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	rows, err := s.repo.ListByUser(dbctx.New(ctx), userID, limit)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "list_mind_maps_failed", err)
	}
	return rows, nil
}

func (s *mindMapService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "MindMapService.Delete")
	defer span.End()

	if userID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if err := s.repo.Delete(dbctx.New(ctx), userID, id); err != nil {
		if errors.Is(err, repos.ErrMindMapNotFound) {
			return apierr.NotFound("mind_map_not_found", err)
		}
		return apierr.New(http.StatusInternalServerError, "delete_mind_map_failed", err)
	}

	var eg errgroup.Group
	if s.cache != nil {
		eg.Go(func() error {
			if err := s.cache.Delete(ctx, cacheKey(userID, id)); err != nil {
				s.metrics.ObserveCache("delete", "error")
				s.log.Warn("Graph cache delete failed", "mind_map_id", id.String(), "error", err)
			}
			return nil
		})
	}
	if s.exporter != nil {
		eg.Go(func() error {
			if err := s.exporter.DeleteGraph(ctx, id.String()); err != nil {
				s.metrics.ObserveExport("neo4j_delete", "error")
				s.log.Warn("Graph export delete failed", "mind_map_id", id.String(), "error", err)
			}
			return nil
		})
	}
	_ = eg.Wait()
	s.log.Info("Mind map deleted", "mind_map_id", id.String(), "user_id", userID.String())
	return nil
}

func (s *mindMapService) Sidebar(ctx context.Context, userID, id uuid.UUID) ([]sidebar.Topic, error) {
	view, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSidebar(len(view.Sidebar))
	return view.Sidebar, nil
}
