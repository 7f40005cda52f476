package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers file routes.
// Reads are public so that book images render without a session.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/files")

	group.GET("/:id", h.Get)
	group.GET("/:id/thumbnail", h.GetThumbnail)

	group.POST("", authMiddleware, h.Upload)
}
