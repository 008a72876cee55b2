package handler

import (
	"net/http"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/service"
	"github.com/gin-gonic/gin"
)

// CommentHandler serves public comments on a media item
type CommentHandler struct {
	service service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// CreateCommentRequest comment submission body
type CreateCommentRequest struct {
	Content       string `json:"content"`
	CommenterName string `json:"commenter_name"`
}

// ListComments handles GET /api/media/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.service.ListForMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, comments, nil)
}

// CreateComment handles POST /api/media/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	comment, err := h.service.Create(c.Request.Context(), service.CreateCommentRequest{
		MediaID:       c.Param("id"),
		Content:       req.Content,
		CommenterName: req.CommenterName,
		CommenterIP:   c.ClientIP(),
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.CreatedResponse(c, comment)
}
