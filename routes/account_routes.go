package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/autoflow/autoflow_backend/controllers"
)

// RegisterAccountRoutes sets up registration, login and session routes
func RegisterAccountRoutes(e *echo.Echo, accountController *controllers.AccountController) {
	account := e.Group("/Account")

	account.POST("/Register", accountController.Register)
	account.POST("/Login", accountController.Login)
	account.POST("/Logout", accountController.Logout)
	account.GET("/CurrentUser", accountController.CurrentUser)
}
