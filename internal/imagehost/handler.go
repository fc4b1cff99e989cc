package imagehost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nextdash/dashboard-backend/internal/logging"
)

type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

type Handler struct {
	uploader Uploader
	maxBytes int64
}

func NewHandler(u Uploader, maxBytes int64) *Handler {
	return &Handler{uploader: u, maxBytes: maxBytes}
}

func (h *Handler) Register(rg *gin.RouterGroup, mutate ...gin.HandlerFunc) {
	rg.POST("", append(append([]gin.HandlerFunc{}, mutate...), h.upload)...)
}

// upload accepts a multipart "file" part and answers {"ok": true, "url": ...}.
func (h *Handler) upload(c *gin.Context) {
	log := logging.New(c.Request.Context())
	// multipart framing needs headroom over the file limit
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64<<10)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing file"})
		return
	}
	if fh.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "file too large"})
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"ok": false, "error": "only images can be uploaded"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unreadable file"})
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), fh.Filename, contentType, f)
	if err != nil {
		log.Error("upload_image", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "upload failed"})
		return
	}

	log.Infof("upload_image", "bytes=%d url=%s", fh.Size, url)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "url": url})
}
