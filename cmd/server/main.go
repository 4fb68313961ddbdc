package main

import (
	"context"
	"log"

	"github.com/aayushkarn/khabari/backend/internal/router"
	"github.com/aayushkarn/khabari/backend/internal/validators"
	"github.com/aayushkarn/khabari/backend/pkg/config"
	"github.com/aayushkarn/khabari/backend/pkg/firebase"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase (optional social sign-in)
	var firebaseAuthClient *auth.Client
	firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	if firebaseApp != nil {
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Println("Firebase credentials not configured, social sign-in disabled.")
	}

	// Create Echo instance
	e := echo.New()

	// Validator
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseAuthClient)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
