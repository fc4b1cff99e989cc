package overview

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextdash/dashboard-backend/internal/logging"
)

type Getter interface {
	Get(ctx context.Context) (*Overview, error)
}

type Handler struct {
	svc Getter
}

func NewHandler(svc Getter) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
}

func (h *Handler) get(c *gin.Context) {
	out, err := h.svc.Get(c.Request.Context())
	if err != nil {
		logging.New(c.Request.Context()).Error("get_overview", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load overview"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "overview": out})
}
