package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/http/handlers"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/http/middleware"
	"github.com/jsamuelsen/axcelerate-go/internal/platform/telemetry"
)

// DefaultLMSTimeout bounds the LMS diagnostics routes, retries included.
const DefaultLMSTimeout = 2 * time.Minute

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	HealthHandler *handlers.HealthHandler

	// LMSHandler is optional; without it only the health routes are served.
	LMSHandler *handlers.LMSHandler

	// LMSTimeout bounds /-/lms routes. Zero means DefaultLMSTimeout.
	LMSTimeout time.Duration
}

// SetupRouter configures middleware and routes on the engine.
// Middleware order (first to last):
//  1. Recovery
//  2. Request ID
//  3. OpenTelemetry tracing and probe metrics
//  4. Logging
//
// Routes:
//   - /-/live, /-/ready, /-/build, /-/metrics
//   - /-/lms/overview, /-/lms/circuit
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(middleware.Recovery(cfg.Logger), middleware.RequestID())
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	probes := engine.Group("/-")

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(probes)
	}

	if cfg.LMSHandler != nil {
		timeout := cfg.LMSTimeout
		if timeout <= 0 {
			timeout = DefaultLMSTimeout
		}

		lms := probes.Group("/lms", middleware.Deadline(timeout))
		cfg.LMSHandler.RegisterLMSRoutes(lms)
	}
}
