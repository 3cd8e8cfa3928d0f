package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/axcelerate-go/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string { return s.name }
func (s stubChecker) Check(ctx context.Context) error { return s.err }

func newRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	h.RegisterHealthRoutes(r.Group("/-"))

	return r
}

func serve(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2026-01-15T10:00:00Z")

	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
	assert.Equal(t, "2026-01-15T10:00:00Z", bi.BuildTime)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
}

func TestHealthHandler_Liveness(t *testing.T) {
	r := newRouter(NewHealthHandler(ports.NewHealthRegistry(0), BuildInfo{}))

	w := serve(r, "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []ports.HealthChecker
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
		{
			name:       "LMS reachable",
			checkers:   []ports.HealthChecker{stubChecker{name: "axcelerate"}},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
		{
			name: "LMS rejects tokens",
			checkers: []ports.HealthChecker{
				stubChecker{name: "axcelerate", err: errors.New("invalid api tokens")},
				stubChecker{name: "disk"},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := ports.NewHealthRegistry(0)
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			w := serve(newRouter(NewHealthHandler(registry, BuildInfo{})), "/-/ready")

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp readinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Len(t, resp.Checks, len(tt.checkers))
		})
	}
}

func TestHealthHandler_ReadinessFeedsGauge(t *testing.T) {
	registry := ports.NewHealthRegistry(0)
	require.NoError(t, registry.Register(stubChecker{name: "axcelerate", err: errors.New("down")}))
	r := newRouter(NewHealthHandler(registry, BuildInfo{}))

	serve(r, "/-/ready")
	w := serve(r, "/-/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `axcelerate_check_up{check="axcelerate"} 0`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestHealthHandler_BuildInfo(t *testing.T) {
	bi := NewBuildInfo("2.1.0", "def456", "2026-10-01T00:00:00Z")
	w := serve(newRouter(NewHealthHandler(ports.NewHealthRegistry(0), bi)), "/-/build")

	assert.Equal(t, http.StatusOK, w.Code)

	var got BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, bi, got)
}

func TestHealthHandler_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewHealthHandler(ports.NewHealthRegistry(0), BuildInfo{})
		NewHealthHandler(ports.NewHealthRegistry(0), BuildInfo{})
	})
}
