package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/questboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/questboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/questboard/internal/platform/config"
	"github.com/jsamuelsen/questboard/internal/platform/telemetry"
)

// RouterConfig wires handlers and middleware settings into the router.
// Nil handlers are skipped.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string
	Server      *config.ServerConfig

	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	Actions   *handlers.ActionHandler
	Catalog   *handlers.CatalogHandler

	Achievements *handlers.AchievementHandler
}

// SetupRouter installs the middleware chain and the routes.
//
// Middleware order, outermost first:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and request metrics
//  5. Logging (skips /-/)
//  6. Timeout (/api/v1 only)
//
// Probes live under /-/ and the view models and actions under /api/v1.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	api := engine.Group("/api/v1")
	if cfg.Server != nil && cfg.Server.RequestTimeout > 0 {
		api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	if cfg.Dashboard != nil {
		cfg.Dashboard.RegisterRoutes(api)
	}

	if cfg.Actions != nil {
		cfg.Actions.RegisterRoutes(api)
	}

	if cfg.Catalog != nil {
		cfg.Catalog.RegisterRoutes(api)
	}

	if cfg.Achievements != nil {
		cfg.Achievements.RegisterRoutes(api)
	}
}
