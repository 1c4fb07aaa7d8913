package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mindmap-backend/internal/http/response"
	"github.com/yungbote/mindmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
	"github.com/yungbote/mindmap-backend/internal/services"
)

const codeUnprocessableMindMap = "unprocessable_mindmap"

var errNotAMindMap = errors.New("payload does not describe a mind map")

type MindMapHandler struct {
	log      *logger.Logger
	mindMaps services.MindMapService
}

func NewMindMapHandler(log *logger.Logger, mindMaps services.MindMapService) *MindMapHandler {
	return &MindMapHandler{
		log:      log.With("handler", "MindMapHandler"),
		mindMaps: mindMaps,
	}
}

type generateMindMapRequest struct {
	Subject      string `json:"subject" validate:"required,max=200"`
	Instructions string `json:"instructions" validate:"max=2000"`
	Depth        int    `json:"depth" validate:"gte=0,lte=5"`
}

type ingestMindMapRequest struct {
	Subject string          `json:"subject" validate:"max=200"`
	MindMap json.RawMessage `json:"mind_map"`
}

func (r ingestMindMapRequest) raw() (any, error) {
	if len(r.MindMap) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.MindMap, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func viewPayload(view *services.MindMapView) gin.H {
	out := gin.H{
		"graph":    view.Graph,
		"sidebar":  view.Sidebar,
		"warnings": view.Warnings,
	}
	if view.MindMap != nil {
		out["mind_map"] = view.MindMap
	}
	if view.IsPassThrough() {
		out["raw"] = view.PassThrough
	}
	return out
}

// respondBuilt answers a build request. A pass-through is a 422 that still carries the
// stored record and the raw value, so the client can show its empty state.
func respondBuilt(c *gin.Context, status int, view *services.MindMapView) {
	payload := viewPayload(view)
	if view.IsPassThrough() {
		payload["error"] = response.NewError(codeUnprocessableMindMap, errNotAMindMap)
		c.JSON(http.StatusUnprocessableEntity, payload)
		return
	}
	c.JSON(status, payload)
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/mindmaps/generate
func (h *MindMapHandler) Generate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req generateMindMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := validateRequest(req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.mindMaps.Generate(c.Request.Context(), userID, services.GenerateInput{
		Subject:      req.Subject,
		Instructions: req.Instructions,
		Depth:        req.Depth,
	})
	if err != nil {
		response.RespondAPIError(c, err, "generate_failed")
		return
	}
	respondBuilt(c, http.StatusCreated, view)
}

// POST /api/mindmaps
func (h *MindMapHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req ingestMindMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := validateRequest(req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	raw, err := req.raw()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.mindMaps.Ingest(c.Request.Context(), userID, services.IngestInput{Subject: req.Subject, Raw: raw})
	if err != nil {
		response.RespondAPIError(c, err, "create_failed")
		return
	}
	respondBuilt(c, http.StatusCreated, view)
}

// POST /api/mindmaps/preview
func (h *MindMapHandler) Preview(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var req ingestMindMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := validateRequest(req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	raw, err := req.raw()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.mindMaps.Preview(c.Request.Context(), req.Subject, raw)
	if err != nil {
		response.RespondAPIError(c, err, "preview_failed")
		return
	}
	respondBuilt(c, http.StatusOK, view)
}

// GET /api/mindmaps?limit=20
func (h *MindMapHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	rows, err := h.mindMaps.List(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAPIError(c, err, "list_failed")
		return
	}
	response.RespondOK(c, gin.H{"mind_maps": rows})
}

// GET /api/mindmaps/:id
func (h *MindMapHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.mindMaps.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.RespondAPIError(c, err, "load_failed")
		return
	}
	response.RespondOK(c, viewPayload(view))
}

// GET /api/mindmaps/:id/sidebar
func (h *MindMapHandler) Sidebar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	topics, err := h.mindMaps.Sidebar(c.Request.Context(), userID, id)
	if err != nil {
		response.RespondAPIError(c, err, "load_failed")
		return
	}
	response.RespondOK(c, gin.H{"sidebar": topics})
}

// DELETE /api/mindmaps/:id
func (h *MindMapHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.mindMaps.Delete(c.Request.Context(), userID, id); err != nil {
		response.RespondAPIError(c, err, "delete_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
