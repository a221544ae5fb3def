package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware requires a valid Bearer token and stores the caller's user
// id in the gin context under "user_id".
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromHeader(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token is present
// but lets anonymous requests through. Used by public routes that still
// credit signed-in actors (e.g. view counting).
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := userIDFromHeader(c, secret); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func userIDFromHeader(c *gin.Context, secret []byte) (int, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, false
	}

	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	// Numeric claims come back as float64 from MapClaims.
	raw, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int(raw), true
}
