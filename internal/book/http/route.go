package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers book catalog routes.
// The availability endpoint under /books/:id lives with the rental routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/books")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/featured", h.GetFeatured)
	group.GET("/:id", h.Get)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Create)
		authed.PATCH("/:id", h.Update)
		authed.DELETE("/:id", h.Delete)
	}

	my := g.Group("/my-books")
	my.Use(authMiddleware)
	{
		my.GET("", h.ListMine)
	}
}
