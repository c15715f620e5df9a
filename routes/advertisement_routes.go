package routes

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/autoflow/autoflow_backend/controllers"
	"github.com/autoflow/autoflow_backend/middleware"
)

// RegisterAdvertisementRoutes sets up the listing routes. The feed and the
// details endpoint are public; everything else requires a session.
func RegisterAdvertisementRoutes(e *echo.Echo, adController *controllers.AdvertisementController) {
	ads := e.Group("/Advertisement")

	ads.GET("/GetAll", adController.GetAll)
	ads.GET("/Details/:id", adController.Details)

	protected := ads.Group("")
	protected.Use(middleware.RequireAuth())

	// Multipart submissions carry up to 10 image files
	protected.POST("/CreateWithImages", adController.CreateWithImages, echoMiddleware.BodyLimit("50M"))
	protected.GET("/MyAdvertisements", adController.MyAdvertisements)
	protected.PUT("/Update/:id", adController.Update)
	protected.DELETE("/Delete/:id", adController.Delete)
}
