package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/pkg/response"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Message(c, http.StatusUnauthorized, "missing Authorization header")
			c.Abort()
			return
		}

		tokenStr, ok := bearerToken(header)
		if !ok {
			response.Message(c, http.StatusUnauthorized, "invalid Authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseAndValidate(tokenStr)
		if err != nil {
			response.Message(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		// Store user info into Gin context for later handlers.
		setClaims(c, claims)

		c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid token is present.
// Anonymous and unreadable tokens are both treated as anonymous.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := jwtManager.ParseAndValidate(tokenStr); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers without role.
// It MUST be used after AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != role {
			response.Message(c, http.StatusForbidden, "forbidden: "+role+" access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
