package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextdash/dashboard-backend/internal/action"
	"github.com/nextdash/dashboard-backend/internal/invoices/domain"
	"github.com/nextdash/dashboard-backend/internal/logging"
)

type Service interface {
	Create(ctx context.Context, form url.Values) action.Result
	Update(ctx context.Context, id string, form url.Values) action.Result
	Delete(ctx context.Context, id string) action.Result
	List(ctx context.Context, query string, page int) (*domain.InvoicePage, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches invoice routes; mutate runs ahead of every write route.
func (h *Handler) Register(rg *gin.RouterGroup, mutate ...gin.HandlerFunc) {
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mutate...), fn)
	}

	rg.GET("", h.list)
	rg.POST("", with(h.create)...)
	rg.POST("/:id", with(h.update)...)
	rg.PUT("/:id", with(h.update)...)
	rg.DELETE("/:id", with(h.delete)...)
}

func (h *Handler) create(c *gin.Context) {
	form, err := action.ReadForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid form"})
		return
	}
	action.Respond(c, h.svc.Create(c.Request.Context(), form))
}

func (h *Handler) update(c *gin.Context) {
	form, err := action.ReadForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid form"})
		return
	}
	action.Respond(c, h.svc.Update(c.Request.Context(), c.Param("id"), form))
}

func (h *Handler) delete(c *gin.Context) {
	action.Respond(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	res, err := h.svc.List(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		logging.New(c.Request.Context()).Error("list_invoices", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"invoices":    res.Invoices,
		"page":        res.Page,
		"total_pages": res.TotalPages,
	})
}
