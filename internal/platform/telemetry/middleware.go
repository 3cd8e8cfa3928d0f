package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/axcelerate-go/internal/platform/telemetry"

// TraceIDHeader carries the request's trace ID back to the prober.
const TraceIDHeader = "X-Trace-ID"

type probeMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

func newProbeMetrics() (*probeMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"axcelerate.probe.request.duration",
		metric.WithDescription("Probe request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		"axcelerate.probe.request.total",
		metric.WithDescription("Total number of probe requests"),
	)
	if err != nil {
		return nil, err
	}

	return &probeMetrics{duration: duration, total: total}, nil
}

// Middleware returns the otelgin tracing middleware followed by a handler
// recording probe metrics and echoing the trace ID.
func Middleware(serviceName string) []gin.HandlerFunc {
	metrics, err := newProbeMetrics()
	if err != nil {
		otel.Handle(err)
	}

	record := func(c *gin.Context) {
		start := time.Now()

		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().HasTraceID() {
			c.Header(TraceIDHeader, span.SpanContext().TraceID().String())
		}

		c.Next()

		if metrics == nil {
			return
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		metrics.duration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
		metrics.total.Add(c.Request.Context(), 1, attrs)
	}

	return []gin.HandlerFunc{otelgin.Middleware(serviceName), record}
}
