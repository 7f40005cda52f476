package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers rental routes. The per-book availability calendar
// is registered here too since it is computed from rentals.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/books/:id/availability", h.Availability)

	group := g.Group("/rentals")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("/my", h.ListMy)
		group.PATCH("/:id/status", h.UpdateStatus)
		group.POST("/verify", h.Verify)
		group.POST("/:id/return", h.ConfirmReturn)
	}
}
