package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/aayushkarn/khabari/backend/internal/gateway"
	"github.com/aayushkarn/khabari/backend/internal/handlers"
	"github.com/aayushkarn/khabari/backend/internal/middleware"
	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/notifier"
	"github.com/aayushkarn/khabari/backend/internal/repositories"
	"github.com/aayushkarn/khabari/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware. Authentication runs
// globally and resolves an optional principal; role guards sit on the
// routes that need them.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.Authenticate())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Comment{},
		&models.Notification{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	articleRepo := repositories.NewMongoArticleRepository(mgClient.Database(cfg.MongoDatabase))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(pgdb)
	paymentRepo := repositories.NewPostgresPaymentRepository(pgdb)

	n := notifier.New(notificationRepo, userRepo)
	gw := gateway.NewClient(cfg.EsewaSecret, cfg.EsewaProductCode, cfg.EsewaBaseURL, nil)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(e)
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, subscriptionRepo, n)
	userHandler.RegisterUserRoutes(e)
	log.Println("User and subscription routes configured.")

	articleHandler := handlers.NewArticleHandler(articleRepo, userRepo, commentRepo, notificationRepo, n)
	articleHandler.RegisterArticleRoutes(e)
	log.Println("Article routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, articleRepo, userRepo, n)
	commentHandler.RegisterCommentRoutes(e)
	log.Println("Comment routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(e)
	log.Println("Notification routes configured.")

	paymentHandler := handlers.NewPaymentHandler(paymentRepo, userRepo, gw,
		cfg.FrontendURL+"/payment/success", cfg.FrontendURL+"/payment/failure")
	paymentHandler.RegisterPaymentRoutes(e)
	log.Println("Payment routes configured.")

	analyticsHandler := handlers.NewAnalyticsHandler(userRepo, articleRepo, paymentRepo)
	analyticsHandler.RegisterAnalyticsRoutes(e)
	log.Println("Analytics routes configured.")

	log.Println("All routes configured.")
}
