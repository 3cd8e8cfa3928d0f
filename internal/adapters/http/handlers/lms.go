package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/http/dto"
	"github.com/jsamuelsen/axcelerate-go/internal/app"
)

// OverviewSource produces the LMS connectivity report. *app.LMSService satisfies it.
type OverviewSource interface {
	Overview(ctx context.Context) (*app.Overview, error)
}

// CircuitReporter exposes the pipeline's breaker state. *clients.Client satisfies it.
type CircuitReporter interface {
	CircuitState() clients.State
	BaseURL() string
}

// LMSHandler serves the LMS diagnostics routes.
type LMSHandler struct {
	overview OverviewSource
	circuit  CircuitReporter
}

// NewLMSHandler creates an LMSHandler. circuit may be nil.
func NewLMSHandler(overview OverviewSource, circuit CircuitReporter) *LMSHandler {
	return &LMSHandler{overview: overview, circuit: circuit}
}

// Overview handles GET /-/lms/overview with catalog sizes fetched live.
func (h *LMSHandler) Overview(c *gin.Context) {
	ov, err := h.overview.Overview(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ov)
}

// CircuitResponse reports the breaker state for the configured tenant.
type CircuitResponse struct {
	BaseURL string `json:"baseUrl"`
	State   string `json:"state"`
}

// Circuit handles GET /-/lms/circuit.
func (h *LMSHandler) Circuit(c *gin.Context) {
	if h.circuit == nil {
		c.JSON(http.StatusOK, CircuitResponse{State: clients.StateClosed.String()})
		return
	}

	c.JSON(http.StatusOK, CircuitResponse{
		BaseURL: h.circuit.BaseURL(),
		State:   h.circuit.CircuitState().String(),
	})
}

// RegisterLMSRoutes registers the diagnostics routes on rg.
func (h *LMSHandler) RegisterLMSRoutes(rg *gin.RouterGroup) {
	rg.GET("/overview", h.Overview)
	rg.GET("/circuit", h.Circuit)
}
