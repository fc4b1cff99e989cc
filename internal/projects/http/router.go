package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. mutate runs
// ahead of the write routes.
func (h *Handler) Register(rg *gin.RouterGroup, mutate ...gin.HandlerFunc) {
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mutate...), fn)
	}

	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("", with(h.create)...)
	rg.POST("/:id", with(h.update)...)
	rg.PUT("/:id", with(h.update)...)
}
