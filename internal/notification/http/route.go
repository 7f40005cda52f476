package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers notification routes
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/notifications")
	group.Use(authMiddleware)

	group.GET("", h.List)
	group.GET("/unread-count", h.UnreadCount)
	group.PATCH("/:id/read", h.MarkRead)
	group.PATCH("/read-all", h.MarkAllRead)
}
