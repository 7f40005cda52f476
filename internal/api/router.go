package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/book-rental-backend/internal/auth"
	"github.com/nekogravitycat/book-rental-backend/internal/book"
	bookHttp "github.com/nekogravitycat/book-rental-backend/internal/book/http"
	"github.com/nekogravitycat/book-rental-backend/internal/config"
	"github.com/nekogravitycat/book-rental-backend/internal/file"
	fileHttp "github.com/nekogravitycat/book-rental-backend/internal/file/http"
	"github.com/nekogravitycat/book-rental-backend/internal/notification"
	notificationHttp "github.com/nekogravitycat/book-rental-backend/internal/notification/http"
	"github.com/nekogravitycat/book-rental-backend/internal/rental"
	rentalHttp "github.com/nekogravitycat/book-rental-backend/internal/rental/http"
	"github.com/nekogravitycat/book-rental-backend/internal/review"
	reviewHttp "github.com/nekogravitycat/book-rental-backend/internal/review/http"
	"github.com/nekogravitycat/book-rental-backend/internal/user"
)

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and
// registering routes for the various modules.
func NewRouter(
	cfg *config.Config,
	userService user.Service,
	bookService book.Service,
	rentalService rental.Service,
	notificationService notification.Service,
	reviewService review.Service,
	fileService file.Service,
	jwtManager *auth.JWTManager,
) *gin.Engine {

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(jwtManager)

	authHandler := NewAuthHandler(userService, jwtManager)
	bookHandler := bookHttp.NewHandler(bookService)
	rentalHandler := rentalHttp.NewHandler(rentalService)
	notificationHandler := notificationHttp.NewHandler(notificationService)
	reviewHandler := reviewHttp.NewHandler(reviewService)
	fileHandler := fileHttp.NewHandler(fileService)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/me", authMiddleware, authHandler.Me)
		v1.PATCH("/me", authMiddleware, authHandler.UpdateMe)

		bookHttp.RegisterRoutes(v1, bookHandler, authMiddleware)
		rentalHttp.RegisterRoutes(v1, rentalHandler, authMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
		reviewHttp.RegisterRoutes(v1, reviewHandler, authMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
	}

	return r
}
