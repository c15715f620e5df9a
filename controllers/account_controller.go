package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/autoflow/autoflow_backend/middleware"
	"github.com/autoflow/autoflow_backend/models"
	"github.com/autoflow/autoflow_backend/repositories"
)

// AccountController handles registration, login and session inspection.
type AccountController struct {
	Users repositories.UserRepository
}

// NewAccountController creates a new account controller
func NewAccountController(users repositories.UserRepository) *AccountController {
	return &AccountController{Users: users}
}

// Register handles POST /Account/Register. A taken username is a business
// failure, not an HTTP error: it returns 200 with success=false.
func (ac *AccountController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Username must be at least 3 characters and passwords must match with at least 6 characters"})
	}

	ctx := c.Request().Context()

	_, err := ac.Users.FindByUsername(ctx, req.Username)
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Username is already taken"})
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Server error"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Server error"})
	}

	user := &models.User{
		Username:  req.Username,
		Password:  string(hash),
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	id, err := ac.Users.Create(ctx, user)
	if err != nil {
		// The unique index is the backstop for a concurrent registration
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Username is already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Server error"})
	}

	token, expiresAt, err := middleware.GenerateJWT(id.Hex(), user.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Server error"})
	}
	c.SetCookie(middleware.NewAuthCookie(token, expiresAt))

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Registration completed successfully",
		"username": user.Username,
		"role":     user.Role,
	})
}

// Login handles POST /Account/Login. Wrong credentials return 200 with
// success=false so the client cannot distinguish unknown users from bad
// passwords by status code.
func (ac *AccountController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Username and password are required"})
	}

	ctx := c.Request().Context()

	user, err := ac.Users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Server error"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Invalid username or password"})
	}

	token, expiresAt, err := middleware.GenerateJWT(user.ID.Hex(), user.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Server error"})
	}
	c.SetCookie(middleware.NewAuthCookie(token, expiresAt))

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Logged in successfully",
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout handles POST /Account/Logout: the token is revoked for its remaining
// lifetime and the cookie cleared.
func (ac *AccountController) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.AuthCookieName); err == nil && cookie.Value != "" {
		if claims, err := middleware.ParseToken(cookie.Value); err == nil {
			middleware.BlacklistToken(c.Request().Context(), cookie.Value, time.Unix(claims.ExpiresAt, 0))
		}
	}
	c.SetCookie(middleware.ClearAuthCookie())
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// CurrentUser handles GET /Account/CurrentUser using the identity resolved by
// the session guard.
func (ac *AccountController) CurrentUser(c echo.Context) error {
	caller := middleware.CallerFromContext(c)
	if caller == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "isAuthenticated": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"isAuthenticated": true,
		"username":        middleware.UsernameFromContext(c),
		"role":            caller.Role,
	})
}
