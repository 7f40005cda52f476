package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/book-rental-backend/internal/api"
	"github.com/nekogravitycat/book-rental-backend/internal/auth"
	"github.com/nekogravitycat/book-rental-backend/internal/book"
	"github.com/nekogravitycat/book-rental-backend/internal/config"
	"github.com/nekogravitycat/book-rental-backend/internal/file"
	"github.com/nekogravitycat/book-rental-backend/internal/notification"
	"github.com/nekogravitycat/book-rental-backend/internal/notify"
	"github.com/nekogravitycat/book-rental-backend/internal/pkg/storage"
	"github.com/nekogravitycat/book-rental-backend/internal/rental"
	"github.com/nekogravitycat/book-rental-backend/internal/review"
	"github.com/nekogravitycat/book-rental-backend/internal/user"
)

// notifyQueueSize bounds the in-flight notification backlog.
const notifyQueueSize = 64

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	dispatcher *notify.Dispatcher
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher)

	// Book Module
	bookRepo := book.NewPgxRepository(pool)
	bookService := book.NewService(bookRepo, userService)

	// Notification Module
	notificationRepo := notification.NewPgxRepository(pool)
	notificationService := notification.NewService(notificationRepo)

	// Dispatcher delivers lifecycle notifications off the request path.
	dispatcher := notify.NewDispatcher(notificationService, notifyQueueSize)

	// Rental Module
	rentalRepo := rental.NewPgxRepository(pool)
	rentalService := rental.NewService(rentalRepo, bookService, dispatcher)

	// Review Module
	reviewRepo := review.NewPgxRepository(pool)
	reviewService := review.NewService(reviewRepo, rentalService)

	// File Module
	fileRepo := file.NewPgxRepository(pool)
	fileService := file.NewService(fileRepo, store, storage.NewImageProcessor())

	// Router
	router := api.NewRouter(
		cfg,
		userService,
		bookService,
		rentalService,
		notificationService,
		reviewService,
		fileService,
		jwtManager,
	)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		dispatcher: dispatcher,
	}, nil
}

// Close drains the notification dispatcher.
func (c *Container) Close() {
	c.dispatcher.Close()
}
