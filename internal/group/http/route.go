package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	groups := g.Group("/groups")

	groups.GET("", h.List)
	groups.GET("/:id", h.Get)

	// === Authenticated Routes ===
	groups.Use(authMiddleware)
	{
		groups.POST("", h.Create)
		groups.POST("/:id/join", h.Join)
		groups.POST("/:id/leave", h.Leave)
	}
}
