package router

import (
	"testing"

	"github.com/karlion-shop/internal/config"
	"github.com/karlion-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	return SetupRouter(cfg, &provider.Container{})
}

func hasRoute(engine *gin.Engine, method, path string) bool {
	for _, route := range engine.Routes() {
		if route.Method == method && route.Path == path {
			return true
		}
	}
	return false
}

func TestMarkPaidRouteIsAdminOnly(t *testing.T) {
	engine := setupRouterTest(t)

	// 标记支付只能由管理端发起，用户侧不暴露该路由
	if hasRoute(engine, "PUT", "/api/v1/orders/:id/pay") {
		t.Fatalf("owner-facing mark-paid route must not exist")
	}
	if !hasRoute(engine, "PUT", "/api/v1/admin/orders/:id/pay") {
		t.Fatalf("admin mark-paid route missing")
	}
}

func TestRouterRegistersCoreRoutes(t *testing.T) {
	engine := setupRouterTest(t)

	for _, item := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/public/products"},
		{"POST", "/api/v1/auth/login"},
		{"POST", "/api/v1/orders"},
		{"PUT", "/api/v1/orders/:id"},
		{"POST", "/api/v1/orders/:id/cancel"},
		{"PUT", "/api/v1/admin/orders/:id/deliver"},
		{"GET", "/api/v1/admin/dashboard/stats"},
		{"GET", "/health"},
	} {
		if !hasRoute(engine, item.method, item.path) {
			t.Fatalf("route %s %s missing", item.method, item.path)
		}
	}
}
