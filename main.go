package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/autoflow/autoflow_backend/config"
	"github.com/autoflow/autoflow_backend/controllers"
	"github.com/autoflow/autoflow_backend/middleware"
	"github.com/autoflow/autoflow_backend/repositories"
	"github.com/autoflow/autoflow_backend/routes"
	"github.com/autoflow/autoflow_backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (logout token revocation)
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	adRepo := repositories.NewAdvertisementRepository(db)

	// Initialize image storage
	imageStore := utils.NewImageStore()
	if err := imageStore.Initialize(); err != nil {
		log.Fatal("Failed to initialize image storage:", err)
	}

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SessionGuard(userRepo))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "AutoFlow Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize controllers
	accountController := controllers.NewAccountController(userRepo)
	adController := controllers.NewAdvertisementController(adRepo, userRepo, imageStore)
	adminController := controllers.NewAdminController(userRepo, adRepo, imageStore)

	// Register routes
	routes.RegisterAccountRoutes(e, accountController)
	routes.RegisterAdvertisementRoutes(e, adController)
	routes.RegisterAdminRoutes(e, adminController)

	// Serve uploaded images
	e.Static("/uploads", imageStore.BaseDir)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
