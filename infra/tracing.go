package infra

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type TelemetryRessources struct {
	TracerProvider    trace.TracerProvider
	Tracer            trace.Tracer
	TextMapPropagator propagation.TextMapPropagator
	shutdown          func(context.Context) error
}

func (r TelemetryRessources) Shutdown(ctx context.Context) error {
	if r.shutdown == nil {
		return nil
	}
	return r.shutdown(ctx)
}

func NoopTelemetry() TelemetryRessources {
	provider := noop.NewTracerProvider()
	return TelemetryRessources{
		TracerProvider:    provider,
		Tracer:            provider.Tracer("health-insights"),
		TextMapPropagator: propagation.TraceContext{},
	}
}

// InitTelemetry exports spans over OTLP gRPC, configured with the standard OTEL_EXPORTER_OTLP_* variables.
func InitTelemetry(configuration TelemetryConfiguration, apiVersion string) (TelemetryRessources, error) {
	if !configuration.Enabled {
		return NoopTelemetry(), nil
	}

	exporter, err := otlptracegrpc.New(context.Background())
	if err != nil {
		return TelemetryRessources{}, errors.Wrap(err, "could not create otlp trace exporter")
	}

	res, err := resource.New(context.Background(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(configuration.ApplicationName),
			semconv.ServiceVersion(apiVersion),
		),
	)
	if err != nil {
		return TelemetryRessources{}, errors.Wrap(err, "could not create telemetry resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(RouteSampler{Rate: configuration.SamplingRate})),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	propagators := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(propagators)

	return TelemetryRessources{
		TracerProvider:    tp,
		Tracer:            tp.Tracer(configuration.ApplicationName),
		TextMapPropagator: propagators,
		shutdown:          tp.Shutdown,
	}, nil
}

var unsampledRoutePrefixes = []string{"/health", "/liveness", "/metrics", "/docs", "/openapi.json"}

// RouteSampler never samples probes and documentation routes, and samples everything else at Rate.
type RouteSampler struct {
	Rate float64
}

func (RouteSampler) Description() string {
	return "health-insights-route-sampler"
}

func (s RouteSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	for _, attr := range p.Attributes {
		if attr.Key != semconv.HTTPRouteKey {
			continue
		}
		route := attr.Value.AsString()
		for _, prefix := range unsampledRoutePrefixes {
			if strings.HasPrefix(route, prefix) {
				return sdktrace.NeverSample().ShouldSample(p)
			}
		}
	}
	return sdktrace.TraceIDRatioBased(s.Rate).ShouldSample(p)
}
