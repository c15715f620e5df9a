package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/autoflow/autoflow_backend/controllers"
	"github.com/autoflow/autoflow_backend/middleware"
)

// RegisterAdminRoutes sets up user management and moderation routes, all
// behind the admin gate.
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController) {
	admin := e.Group("/Admin")
	admin.Use(middleware.RequireAdmin())

	// User management routes
	admin.GET("/GetUsers", adminController.GetUsers)
	admin.PUT("/UpdateUserRole", adminController.UpdateUserRole)
	admin.DELETE("/DeleteUser/:id", adminController.DeleteUser)

	// Listing moderation routes
	admin.GET("/GetPendingAdvertisements", adminController.GetPendingAdvertisements)
	admin.PUT("/ApproveAdvertisement/:id", adminController.ApproveAdvertisement)
	admin.PUT("/RejectAdvertisement/:id", adminController.RejectAdvertisement)
	admin.DELETE("/DeleteAdvertisement/:id", adminController.DeleteAdvertisement)
}
