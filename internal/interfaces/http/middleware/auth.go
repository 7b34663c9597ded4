// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
	"github.com/your-org/pharmacy-dashboard/internal/domain/session"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
	"github.com/your-org/pharmacy-dashboard/internal/pkg/auth"
)

// AuthMiddleware validates the dashboard session token, resolves the session
// and threads the operator identity and upstream access token through the
// request context, so downstream backend calls run as the operator.
func AuthMiddleware(cfg *config.Config, sessions *session.Service) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired, please log in again",
			})
			c.Abort()
			return
		}

		// Store session information in the gin context
		c.Set("session_id", sess.ID)
		c.Set("user_email", sess.User.Email)
		c.Set("user_role", sess.User.Role)
		c.Set("session_user", sess.User)

		// Thread actor and upstream token through the request context
		ctx := audit.WithActor(c.Request.Context(), sess.User.Email)
		ctx = backend.WithToken(ctx, sess.BackendToken)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ManagerMiddleware restricts a route group to manager and admin roles
func ManagerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if role != "manager" && role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Manager access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
