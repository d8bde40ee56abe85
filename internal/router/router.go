package router

import (
	"log"

	"github.com/glesende/iagram-sub000/internal/handlers"
	"github.com/glesende/iagram-sub000/internal/middleware"
	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/notifications"
	"github.com/glesende/iagram-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, logger *zap.Logger, jwtSecret string) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Actor{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
		&models.NotificationSettings{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	actorRepo := repositories.NewPostgresActorRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("iagram"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	settingsRepo := repositories.NewPostgresNotificationSettingsRepository(pgdb)

	// --- Fan-out engine shared by the social endpoints ---
	fanout := notifications.NewFanOutEngine(actorRepo, postRepo, followRepo, settingsRepo, notificationRepo, logger)

	// --- Public routes (guest comments, no authentication) ---
	public := e.Group("/api/v1")
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, actorRepo)
	commentHandler.RegisterCommentRoutes(public)
	log.Println("Comment routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, actorRepo, fanout)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, actorRepo, fanout)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, settingsRepo, actorRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
