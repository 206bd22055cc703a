package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/eonchat/server/internal/bot"
	"github.com/eonchat/server/internal/handlers"
	"github.com/eonchat/server/internal/middleware"
	"github.com/eonchat/server/internal/models"
	"github.com/eonchat/server/internal/relay"
	"github.com/eonchat/server/internal/repositories"
	"github.com/eonchat/server/pkg/config"
	"github.com/eonchat/server/pkg/mailer"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware. CORS is limited to the
// configured client origin.
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, hub *relay.Hub, rly *relay.Relay) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.FriendRequest{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	mgdb := mgClient.Database(cfg.MongoDatabase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(mgdb)
	messageRepo := repositories.NewMongoMessageRepository(mgdb)
	otpRepo := repositories.NewMongoOtpRepository(mgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := messageRepo.EnsureIndexes(indexCtx); err != nil {
		log.Printf("message index creation failed: %v", err)
	}
	if err := otpRepo.EnsureIndexes(indexCtx); err != nil {
		log.Printf("otp index creation failed: %v", err)
	}

	if cfg.BrevoAPIKey == "" {
		log.Println("BREVO_API_KEY not set; OTP emails will fail until configured.")
	}
	brevoMailer := mailer.NewBrevoMailer(cfg.BrevoAPIKey, cfg.SMTPFrom, "EonChat")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, otpRepo, brevoMailer, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// Realtime relay - token carried as a query parameter
	wsHandler := handlers.NewWebSocketHandler(hub, rly, cfg.JWTSecret)
	e.GET("/ws", wsHandler.Serve)
	log.Println("WebSocket endpoint configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User and friendship graph routes
	userHandler := handlers.NewUserHandler(userRepo, messageRepo, friendshipRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Friend request routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Message routes
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Study bot routes
	botHandler := handlers.NewBotHandler(bot.NewEngine(bot.DefaultKnowledgeBase()))
	botHandler.RegisterBotRoutes(api)
	log.Println("Bot routes configured.")

	log.Println("All routes configured.")
}
