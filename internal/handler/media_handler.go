package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/service"
	"github.com/damoang/mediawall/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

const (
	feedPageSize    = 12
	maxFeedPageSize = 50
)

// MediaHandler serves the public feed and uploads
type MediaHandler struct {
	service     service.MediaService
	maxBodySize int64
}

// NewMediaHandler creates a new MediaHandler. maxBodySize caps the whole
// upload request body.
func NewMediaHandler(service service.MediaService, maxBodySize int64) *MediaHandler {
	return &MediaHandler{service: service, maxBodySize: maxBodySize}
}

// ListFeed handles GET /api/media?page=&limit=
func (h *MediaHandler) ListFeed(c *gin.Context) {
	page, limit := ginutil.Page(c, feedPageSize, maxFeedPageSize)

	items, hasMore, err := h.service.ListFeed(c.Request.Context(), page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, items, &common.Meta{
		Page:    page,
		Limit:   limit,
		HasMore: hasMore,
	})
}

// GetMedia handles GET /api/media/:id
func (h *MediaHandler) GetMedia(c *gin.Context) {
	item, err := h.service.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, item, nil)
}

// Upload handles POST /api/media (multipart: files, caption, uploader_name)
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	form, err := c.MultipartForm()
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		common.ErrorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit), nil)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		common.RespondError(c, fmt.Errorf("%w: at least one file is required", common.ErrInvalidInput))
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFile(fh))
	}

	items, err := h.service.Upload(c.Request.Context(), service.UploadRequest{
		Files:        files,
		Caption:      c.PostForm("caption"),
		UploaderName: c.PostForm("uploader_name"),
		UploaderIP:   c.ClientIP(),
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.CreatedResponse(c, items)
}

func uploadFile(fh *multipart.FileHeader) service.UploadFile {
	return service.UploadFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
