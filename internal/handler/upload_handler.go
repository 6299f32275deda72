package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/storage"
)

// Item photos top out at 10 MB.
const maxImageSize = 10 << 20

// UploadHandler serves item image uploads.
type UploadHandler struct {
	images *storage.ImageStore
}

func NewUploadHandler(images *storage.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

// Upload handles POST /api/v1/upload/image (multipart field "file").
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.images == nil {
		Error(c, 50300, "object storage is not configured")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "file field is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		BadRequest(c, "file exceeds the 10MB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		BadRequest(c, "only image uploads are allowed")
		return
	}

	url, err := h.images.Upload(c.Request.Context(), file, header.Filename, header.Size, contentType)
	if err != nil {
		InternalError(c, "upload failed: "+err.Error())
		return
	}

	Created(c, gin.H{"url": url})
}
