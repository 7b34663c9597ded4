// internal/interfaces/http/server_test.go
package http

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/database/redis"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Pharmacy Dashboard"
	cfg.App.Environment = "test"
	cfg.Server.Port = "0"
	cfg.Backend.BaseURL = "http://localhost:9000/api"
	cfg.Backend.RequestTimeout = 5 * time.Second
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough-0123"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.RateLimitPerMinute = 100
	cfg.Transfer.SafetyFloor = 5
	cfg.Transfer.AutoFillFactor = 3
	return cfg
}

// The server takes the Redis wrapper so the session store can be built from
// it; this constructs the full service graph and checks the route table.
func TestServerWiresAllRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := NewServer(testConfig(), nil, &redis.Client{})
	srv.gin = gin.New()
	srv.setupMiddleware()
	srv.setupRoutes()

	want := map[string]bool{
		"GET /health":                              false,
		"GET /ready":                               false,
		"POST /api/v1/auth/login":                  false,
		"POST /api/v1/auth/refresh":                false,
		"POST /api/v1/auth/logout":                 false,
		"GET /api/v1/auth/profile":                 false,
		"GET /api/v1/transfers":                    false,
		"POST /api/v1/transfers":                   false,
		"GET /api/v1/transfers/:id/preview":        false,
		"GET /api/v1/transfers/:id/manifest":       false,
		"POST /api/v1/transfers/:id/approve":       false,
		"POST /api/v1/transfers/:id/split-approve": false,
		"POST /api/v1/transfers/:id/ship":          false,
		"POST /api/v1/transfers/:id/receive":       false,
		"POST /api/v1/transfers/:id/cancel":        false,
		"GET /api/v1/stock-slips":                  false,
		"POST /api/v1/stock-slips":                 false,
		"POST /api/v1/stock-slips/autofill":        false,
		"GET /api/v1/stock-slips/:id/document":     false,
		"POST /api/v1/stock-slips/:id/receive":     false,
		"POST /api/v1/stock-slips/:id/cancel":      false,
		"GET /api/v1/catalog/products":             false,
		"GET /api/v1/catalog/low-stock":            false,
		"GET /api/v1/catalog/branches":             false,
		"GET /api/v1/admin/staff":                  false,
		"POST /api/v1/admin/staff":                 false,
		"GET /api/v1/admin/customers":              false,
		"GET /api/v1/admin/audit":                  false,
	}

	for _, route := range srv.gin.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}

	for key, seen := range want {
		if !seen {
			t.Errorf("route %s is not registered", key)
		}
	}
}
