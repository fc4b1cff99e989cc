package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextdash/dashboard-backend/internal/action"
	"github.com/nextdash/dashboard-backend/internal/logging"
	"github.com/nextdash/dashboard-backend/internal/projects/domain"
)

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

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		logging.New(c.Request.Context()).Error("get_project", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	res, err := h.svc.List(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		logging.New(c.Request.Context()).Error("list_projects", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"projects":    res.Projects,
		"page":        res.Page,
		"total_pages": res.TotalPages,
	})
}
