package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
)

// OtelMiddleware records per-request metrics and spans for the Fiber app.
type OtelMiddleware struct {
	meter                     metric.Meter
	tracer                    trace.Tracer
	httpRequestCounter        metric.Int64Counter
	httpRequestDuration       metric.Float64Histogram
	httpResponseStatusCounter metric.Int64Counter
	httpActiveRequests        metric.Int64UpDownCounter
	propagator                propagation.TextMapPropagator
}

func NewOtelMiddleware() *OtelMiddleware {
	meter := otel.GetMeterProvider().Meter("fiber-middleware")
	tracer := otel.GetTracerProvider().Tracer("fiber-middleware")

	httpRequestCounter, _ := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)

	httpRequestDuration, _ := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("ms"),
	)

	httpResponseStatusCounter, _ := meter.Int64Counter(
		"http.server.response.status",
		metric.WithDescription("HTTP response status codes"),
		metric.WithUnit("{status}"),
	)

	httpActiveRequests, _ := meter.Int64UpDownCounter(
		"http.server.active.requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{request}"),
	)

	propagator := otel.GetTextMapPropagator()
	if propagator == nil {
		propagator = propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)
	}

	return &OtelMiddleware{
		meter:                     meter,
		tracer:                    tracer,
		httpRequestCounter:        httpRequestCounter,
		httpRequestDuration:       httpRequestDuration,
		httpResponseStatusCounter: httpResponseStatusCounter,
		httpActiveRequests:        httpActiveRequests,
		propagator:                propagator,
	}
}

// Handle returns the handler middleware
func (m *OtelMiddleware) Handle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := m.propagator.Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))

		path := c.Path()
		method := c.Method()

		spanName := fmt.Sprintf("%s %s", method, path)
		ctx, span := m.tracer.Start(ctx, spanName,
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.target", path),
				attribute.String("http.host", c.Hostname()),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		c.Locals("otel-context", ctx)

		routeAttrs := metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		)

		m.httpActiveRequests.Add(ctx, 1, routeAttrs)
		defer m.httpActiveRequests.Add(ctx, -1, routeAttrs)
		m.httpRequestCounter.Add(ctx, 1, routeAttrs)

		startTime := time.Now()
		err := c.Next()
		duration := float64(time.Since(startTime).Milliseconds())

		status := c.Response().StatusCode()
		statusAttrs := metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
			attribute.Int("http.status_code", status),
		)

		m.httpRequestDuration.Record(ctx, duration, statusAttrs)
		m.httpResponseStatusCounter.Add(ctx, 1, statusAttrs)

		zap.L().Debug("HTTP request completed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Float64("duration_ms", duration),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)

		return err
	}
}
