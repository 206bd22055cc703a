package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/eonchat/server/internal/relay"
	"github.com/eonchat/server/internal/repositories"
	"github.com/eonchat/server/internal/router"
	"github.com/eonchat/server/pkg/config"
	"github.com/eonchat/server/pkg/firebase"
	"github.com/eonchat/server/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase (optional feature)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	var firebaseAuthClient *auth.Client
	if firebaseApp != nil {
		firebaseAuthClient = firebaseApp.AuthClient
	}

	// Realtime relay
	hub := relay.NewHub()
	go hub.Run()
	rly := relay.New(hub, repositories.NewPostgresNotificationRepository(db.Postgres))

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseAuthClient, hub, rly)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
