package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func OpenTelemetryTracerFromContext(ctx context.Context) trace.Tracer {
	tracer, found := ctx.Value(ContextKeyOpenTelemetryTracer).(trace.Tracer)
	if !found {
		return noop.NewTracerProvider().Tracer("health-insights")
	}
	return tracer
}

func StoreOpenTelemetryTracerInContext(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, ContextKeyOpenTelemetryTracer, tracer)
}

func StoreOpenTelemetryTracerInContextMiddleware(tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxWithTracer := StoreOpenTelemetryTracerInContext(c.Request.Context(), tracer)
		c.Request = c.Request.WithContext(ctxWithTracer)
		c.Next()
	}
}

// StartSpan opens a span with the tracer stored in the context, tagged with the session id when known.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if sessionId := SessionIdFromContext(ctx); sessionId != "" {
		attrs = append(attrs, attribute.String("session.id", sessionId))
	}
	return OpenTelemetryTracerFromContext(ctx).Start(ctx, name, trace.WithAttributes(attrs...))
}
