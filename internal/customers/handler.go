package customers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextdash/dashboard-backend/internal/logging"
)

type Lister interface {
	List(ctx context.Context) ([]Customer, error)
}

type Handler struct {
	repo Lister
}

func NewHandler(repo Lister) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		logging.New(c.Request.Context()).Error("list_customers", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "customers": items})
}
