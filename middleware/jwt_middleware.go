// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/autoflow/autoflow_backend/config"
)

const (
	// AuthCookieName is the cookie carrying the session token.
	AuthCookieName = "auth_token"
	// TokenLifetime is how long an issued session token stays valid.
	TokenLifetime = 60 * time.Minute

	blacklistKeyPrefix = "token_blacklist:"
)

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// GenerateJWT issues a signed session token for the given user.
func GenerateJWT(userID, username string) (string, time.Time, error) {
	expiresAt := time.Now().Add(TokenLifetime)
	claims := &JwtCustomClaims{
		UserID:   userID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET environment variable is required")
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string) (*JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(GetJWTSecret()), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// NewAuthCookie builds the session cookie for an issued token.
func NewAuthCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearAuthCookie builds an expired cookie that removes the session token
// client-side.
func ClearAuthCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// BlacklistToken revokes a token until its natural expiry. Revocation lives in
// Redis; without Redis the token simply keeps its remaining lifetime.
func BlacklistToken(ctx context.Context, token string, expiresAt time.Time) {
	client := config.GetRedisClient()
	if client == nil || token == "" {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	client.Set(ctx, blacklistKeyPrefix+token, "1", ttl)
}

// IsTokenBlacklisted checks if a token has been revoked by a logout.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	client := config.GetRedisClient()
	if client == nil || token == "" {
		return false
	}
	n, err := client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}
