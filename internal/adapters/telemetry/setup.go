package telemetry

import (
	"context"
	"errors"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/zerr"
)

// ShutdownFunc flushes and stops an installed tracer provider.
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider that writes every finished span to w
// as JSON. Tracers from NewOTelTracer report to the first provider installed.
func Setup(w io.Writer) (ShutdownFunc, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		return nil, errors.Join(domain.ErrTelemetrySetup, zerr.Wrap(err, "create span exporter"))
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return errors.Join(domain.ErrTelemetrySetup, zerr.Wrap(err, "shutdown tracer provider"))
		}
		return nil
	}, nil
}
