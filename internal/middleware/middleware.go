package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rmartinsanz/gin-userbase-api/internal/auth"
	"github.com/rmartinsanz/gin-userbase-api/internal/models"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

// JWTAuth guards a route group with bearer-token authentication.
// It extracts the token from the Authorization header, verifies its signature
// and expiry through the issuer, and attaches the decoded identity to the
// request context. Requests failing any step are rejected before the handler
// runs.
func JWTAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RFC 6750: Bearer token in the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondUnauthorized(c, "Missing Authorization header. A valid Bearer token is required.")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondUnauthorized(c, "Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondUnauthorized(c, "Bearer token is empty")
			return
		}

		identity, err := issuer.Verify(tokenString)
		if err != nil {
			respondUnauthorized(c, err.Error())
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserEmail, identity.Email)
		c.Set(ContextUserRole, identity.Role)

		c.Next()
	}
}

// respondUnauthorized aborts the request with the standard error envelope
func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, message))
	c.Abort()
}
