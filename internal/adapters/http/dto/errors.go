// Package dto holds the JSON envelopes served by the probe server.
package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/axcelerate-go/internal/domain"
)

// ErrorResponse is the error envelope for every non-2xx probe response.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes the failure.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeConfiguration = "CONFIGURATION_ERROR"
	ErrorCodeUpstreamAuth  = "UPSTREAM_AUTHENTICATION"
	ErrorCodeUpstreamAPI   = "UPSTREAM_API_ERROR"
	ErrorCodeUnavailable   = "UPSTREAM_UNAVAILABLE"
	ErrorCodeTimeout       = "TIMEOUT"
	ErrorCodeInternal      = "INTERNAL_ERROR"
)

const internalMessage = "an internal error occurred"

// NewErrorResponse creates an error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// FromError maps an LMS client error onto a probe status and envelope.
// Unknown errors get a generic message.
func FromError(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var vErr *domain.ValidationError
		if errors.As(err, &vErr) && vErr.Field != "" {
			resp.Error.Details = map[string]string{vErr.Field: vErr.Rule}
		}

		return http.StatusBadRequest, resp

	case domain.IsConfiguration(err):
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeConfiguration, err.Error())

	case domain.IsAuthentication(err):
		return http.StatusBadGateway, NewErrorResponse(ErrorCodeUpstreamAuth, err.Error())

	case domain.IsAPI(err):
		return http.StatusBadGateway, NewErrorResponse(ErrorCodeUpstreamAPI, err.Error())

	case domain.IsTransport(err) && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, err.Error())

	case domain.IsTransport(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, internalMessage)
	}
}

// HandleError writes the mapped error response, tagged with the trace ID.
func HandleError(c *gin.Context, err error) {
	status, resp := FromError(err)
	c.JSON(status, resp.WithTraceID(GetTraceID(c)))
}

// Internal aborts with a generic 500 envelope.
func Internal(c *gin.Context) {
	resp := NewErrorResponse(ErrorCodeInternal, internalMessage).WithTraceID(GetTraceID(c))

	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}

// GetTraceID returns the current span's trace ID, or "".
func GetTraceID(c *gin.Context) string {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.SpanContext().HasTraceID() {
		return ""
	}

	return span.SpanContext().TraceID().String()
}
