// Package handlers provides the probe server's HTTP handlers.
package handlers

import (
	"context"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/axcelerate-go/internal/ports"
)

// BuildInfo contains build-time information injected with ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo creates a BuildInfo with the Go version automatically set.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthChecker runs the readiness checks. *ports.HealthRegistry satisfies it.
type HealthChecker interface {
	CheckAll(ctx context.Context) *ports.HealthResult
}

// HealthHandler serves /-/live, /-/ready, /-/build and /-/metrics.
type HealthHandler struct {
	checker   HealthChecker
	buildInfo BuildInfo
	registry  *prometheus.Registry
	ready     *prometheus.GaugeVec
}

// NewHealthHandler creates a handler with its own Prometheus registry holding
// the Go and process collectors and the axcelerate_check_up gauge.
func NewHealthHandler(checker HealthChecker, buildInfo BuildInfo) *HealthHandler {
	registry := prometheus.NewRegistry()
	ready := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "axcelerate_check_up",
		Help: "Result of the last readiness check per dependency (1 healthy, 0 unhealthy).",
	}, []string{"check"})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ready,
	)

	return &HealthHandler{
		checker:   checker,
		buildInfo: buildInfo,
		registry:  registry,
		ready:     ready,
	}
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness always answers 200 while the process runs.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness runs every check, including the LMS connectivity check, and
// answers 503 when any fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.checker.CheckAll(c.Request.Context())

	for name, check := range result.Checks {
		up := 0.0
		if check.Status == ports.HealthStatusHealthy {
			up = 1
		}
		h.ready.WithLabelValues(name).Set(up)
	}

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

// BuildInfoHandler serves the build information.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler serves the handler's Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{Registry: h.registry})
}

// RegisterHealthRoutes registers the probe routes on rg.
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(h.MetricsHandler()))
}
