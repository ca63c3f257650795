package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserID    = "userID"
	ctxUserRole  = "userRole"
	ctxUserPhone = "userPhone"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetUserRole returns the authenticated user's role or empty string.
func GetUserRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}

// GetUserPhone returns the phone carried by the token, as typed at signup.
func GetUserPhone(c *gin.Context) string {
	return c.GetString(ctxUserPhone)
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ctxUserID, claims.UserID())
	c.Set(ctxUserRole, claims.Role)
	c.Set(ctxUserPhone, claims.Phone)
}
