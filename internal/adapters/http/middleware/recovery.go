package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/http/dto"
	"github.com/jsamuelsen/axcelerate-go/internal/platform/logging"
)

// Recovery turns a handler panic into a logged 500 with the error envelope.
// It must be first in the chain.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logging.FromContextOr(c.Request.Context(), logger).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", dto.GetTraceID(c)),
			)

			dto.Internal(c)
		}()

		c.Next()
	}
}
