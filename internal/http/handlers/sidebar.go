package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindmap-backend/internal/http/response"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
	"github.com/yungbote/mindmap-backend/internal/services"
)

const maxSidebarBody = 4 << 20

type SidebarHandler struct {
	log     *logger.Logger
	sidebar services.SidebarService
}

func NewSidebarHandler(log *logger.Logger, sidebar services.SidebarService) *SidebarHandler {
	return &SidebarHandler{log: log.With("handler", "SidebarHandler"), sidebar: sidebar}
}

// POST /api/sidebar
// Body is any graph JSON: canonical, React Flow, or legacy parent-linked nodes.
func (h *SidebarHandler) Reconstruct(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSidebarBody)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	var input any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &input); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_json", errors.New("body must be JSON"))
			return
		}
	}
	topics := h.sidebar.Reconstruct(c.Request.Context(), input)
	response.RespondOK(c, gin.H{"sidebar": topics})
}
