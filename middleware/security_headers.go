// middleware/security_headers.go
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders sets hardening headers on every response. The API serves
// JSON plus the uploaded listing images under /uploads, so the policy allows
// same-origin images and nothing executable.
func SecurityHeaders() echo.MiddlewareFunc {
	csp := strings.Join([]string{
		"default-src 'self'",
		"img-src 'self' data:",
		"script-src 'none'",
		"frame-ancestors 'none'",
	}, "; ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}
