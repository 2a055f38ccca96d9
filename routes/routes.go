package routes

import (
	"ChemoOrder/cache"
	"ChemoOrder/config"
	"ChemoOrder/controllers"
	"ChemoOrder/handlers"
	"ChemoOrder/middlewares"
	"ChemoOrder/realtime"
	"ChemoOrder/repositories"
	"ChemoOrder/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB, hub *realtime.Hub) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	orderRepo := repositories.NewOrderRepository()
	patientRepo := repositories.NewPatientRepository()
	notificationRepo := repositories.NewNotificationRepository()
	userRepo := repositories.NewUserRepository()
	drugRepo := repositories.NewDrugRepository(cache)

	drugService := services.NewDrugService(drugRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, hub)
	orderService := services.NewOrderService(orderRepo, patientRepo, drugService, notificationService, hub)
	patientService := services.NewPatientService(patientRepo)
	authService := services.NewAuthService(userRepo)
	shareService := services.NewShareService(config.GetPublicDir())

	orderHandler := handlers.NewOrderHandler(orderService, config)
	patientHandler := handlers.NewPatientHandler(patientService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	drugHandler := handlers.NewDrugHandler(drugService)
	shareHandler := handlers.NewShareHandler(shareService, config)
	authHandler := handlers.NewAuthHandler(authService)

	// Register routes
	controllers.SetupOrderRoutes(
		router,
		orderHandler,
		patientHandler,
		notificationHandler,
		drugHandler,
		shareHandler,
	)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	// WebSocket handshake; the token travels in the query string.
	wsHandler := realtime.NewHandler(hub)
	router.GET("/ws", wsHandler.HandleConnect)

	// Uploaded attachments, shared images and their preview pages.
	router.Static("/public", config.GetPublicDir())

	return router
}
