// internal/interfaces/http/middleware/timeout.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/config"
)

// Timeout caps request handling. The budget is derived from the backend
// request timeout: a preview fans out one upstream call per item, so a single
// upstream timeout is not enough headroom.
func Timeout(cfg *config.Config) gin.HandlerFunc {
	budget := 2 * cfg.Backend.RequestTimeout
	if budget < 30*time.Second {
		budget = 30 * time.Second
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), budget)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		done := make(chan struct{})
		go func() {
			defer close(done)
			c.Next()
		}()

		select {
		case <-done:
			// Request completed normally
		case <-ctx.Done():
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "The inventory backend took too long to respond",
			})
			c.Abort()
		}
	}
}
