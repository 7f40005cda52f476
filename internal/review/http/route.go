package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers review routes. Reading a book's reviews is public.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/books/:id/reviews", h.ListByBook)

	group := g.Group("/reviews")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
	}
}
