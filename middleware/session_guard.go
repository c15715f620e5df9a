// middleware/session_guard.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autoflow/autoflow_backend/models"
	"github.com/autoflow/autoflow_backend/repositories"
)

const (
	callerContextKey   = "caller"
	usernameContextKey = "username"
)

// SessionGuard resolves the caller's identity once per request. It reads the
// session cookie, validates the token and looks the user up in the identity
// store; the resolved caller is stored in the echo context. Requests without a
// valid session pass through as anonymous, and a token that fails validation
// or points at a deleted user gets its cookie cleared.
func SessionGuard(users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			if IsTokenBlacklisted(ctx, cookie.Value) {
				c.SetCookie(ClearAuthCookie())
				return next(c)
			}

			claims, err := ParseToken(cookie.Value)
			if err != nil {
				c.SetCookie(ClearAuthCookie())
				return next(c)
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				c.SetCookie(ClearAuthCookie())
				return next(c)
			}

			user, err := users.FindByID(ctx, userID)
			if err != nil {
				// The token can outlive its user; treat as anonymous.
				if errors.Is(err, mongo.ErrNoDocuments) {
					c.SetCookie(ClearAuthCookie())
				}
				return next(c)
			}

			c.Set(callerContextKey, &models.Caller{ID: user.ID, Role: user.Role})
			c.Set(usernameContextKey, user.Username)
			return next(c)
		}
	}
}

// CallerFromContext returns the caller resolved by SessionGuard, or nil for
// anonymous requests.
func CallerFromContext(c echo.Context) *models.Caller {
	caller, ok := c.Get(callerContextKey).(*models.Caller)
	if !ok {
		return nil
	}
	return caller
}

// UsernameFromContext returns the resolved caller's username, if any.
func UsernameFromContext(c echo.Context) string {
	username, _ := c.Get(usernameContextKey).(string)
	return username
}

// RequireAuth rejects anonymous requests.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CallerFromContext(c) == nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Success: false,
					Message: "You must be logged in",
				})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects anonymous requests with 401 and authenticated
// non-admin callers with 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFromContext(c)
			if caller == nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Success: false,
					Message: "You must be logged in",
				})
			}
			if !caller.IsAdmin() {
				return c.JSON(http.StatusForbidden, models.Response{
					Success: false,
					Message: "Admin access required",
				})
			}
			return next(c)
		}
	}
}
