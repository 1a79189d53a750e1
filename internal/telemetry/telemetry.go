// Package telemetry provides OpenTelemetry tracing for the brittle-floor
// subsystem and its demo host.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "brittlefloor"
	serviceVersion = "1.0.0"
)

// Settings configure tracing.
type Settings struct {
	Enabled bool `yaml:"enabled"`

	// SampleRatio is the fraction of root traces recorded, within [0,1].
	SampleRatio float64 `yaml:"sample_ratio"`
}

// DefaultSettings records every trace.
func DefaultSettings() Settings {
	return Settings{Enabled: true, SampleRatio: 1}
}

// Setup initializes OpenTelemetry with the OTLP HTTP exporter.
// The exporter reads the standard OTEL_* environment variables:
//   - OTEL_EXPORTER_OTLP_ENDPOINT
//   - OTEL_EXPORTER_OTLP_HEADERS
//
// When tracing is disabled a no-op provider is installed and the returned
// shutdown does nothing.
func Setup(ctx context.Context, s Settings) (shutdown func(context.Context) error, err error) {
	if !s.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}
	if s.SampleRatio < 0 || s.SampleRatio > 1 {
		return nil, fmt.Errorf("sample ratio must be within [0,1], got %g", s.SampleRatio)
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource()),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// newResource describes this process. Own resource, not merged with
// Default(), to avoid schema URL conflicts.
func newResource() *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
		attribute.String("host.name", getHostname()),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.name", "go"),
		attribute.String("process.runtime.version", runtime.Version()),
	)
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// NoopTracer returns a tracer that records nothing, for tests.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
