package handler

import (
	"fmt"
	"net/http"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/middleware"
	"github.com/damoang/mediawall/internal/service"
	"github.com/damoang/mediawall/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the moderation dashboard API
type AdminHandler struct {
	service service.ModerationService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service service.ModerationService) *AdminHandler {
	return &AdminHandler{service: service}
}

// BulkRequest bulk transition request
type BulkRequest struct {
	Action string   `json:"action" binding:"required"`
	IDs    []string `json:"ids"`
}

// ListMedia handles GET /api/admin/media?filter=
func (h *AdminHandler) ListMedia(c *gin.Context) {
	filter, err := domain.ParseFilter(c.Query("filter"))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	items, err := h.service.ListMedia(c.Request.Context(), filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, items, &common.Meta{Filter: string(filter)})
}

// ListComments handles GET /api/admin/comments?filter=
func (h *AdminHandler) ListComments(c *gin.Context) {
	filter, err := domain.ParseFilter(c.Query("filter"))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	items, err := h.service.ListComments(c.Request.Context(), filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, items, &common.Meta{Filter: string(filter)})
}

// Transition handles POST /api/admin/:kind/:id/:action
func (h *AdminHandler) Transition(c *gin.Context) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	action, err := domain.ParseAction(c.Param("action"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	id := c.Param("id")

	if err := h.service.Apply(c.Request.Context(), kind, id, action, middleware.GetAdminID(c)); err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{
		"success": true,
		"kind":    kind,
		"id":      id,
		"action":  action,
	}, nil)
}

// Bulk handles POST /api/admin/:kind/bulk
func (h *AdminHandler) Bulk(c *gin.Context) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	result, err := h.service.ApplyBulk(c.Request.Context(), kind, req.IDs, action, middleware.GetAdminID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if result.HasFailures() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, common.APIResponse{Data: result})
}

// ListActions handles GET /api/admin/actions?limit=
func (h *AdminHandler) ListActions(c *gin.Context) {
	limit := ginutil.QueryInt(c, "limit", 50)
	if limit <= 0 {
		common.RespondError(c, fmt.Errorf("%w: limit must be positive", common.ErrInvalidInput))
		return
	}

	actions, err := h.service.RecentActions(c.Request.Context(), limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, actions, &common.Meta{Limit: limit})
}
