package otel

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log/global"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
)

// Setup routes slog through an OTLP log exporter. Without an OTLP endpoint in
// the environment it is a no-op, so local runs keep the plain default logger.
func Setup(ctx context.Context, name, version string) error {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && os.Getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT") == "" {
		return nil
	}

	exporter, err := newLogExporter(ctx)

	if err != nil {
		return err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(sdkresource.NewWithAttributes(
			semconv.SchemaURL,

			semconv.ServiceName(name),
			semconv.ServiceVersion(version),
		)),
	)

	global.SetLoggerProvider(provider)

	slog.SetDefault(otelslog.NewLogger(name, otelslog.WithLoggerProvider(provider)))

	return nil
}

// newLogExporter honors the standard OTLP protocol selectors, defaulting to
// http/protobuf.
func newLogExporter(ctx context.Context) (sdklog.Exporter, error) {
	protocol := os.Getenv("OTEL_EXPORTER_OTLP_LOGS_PROTOCOL")

	if protocol == "" {
		protocol = os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")
	}

	if strings.EqualFold(protocol, "grpc") {
		return otlploggrpc.New(ctx)
	}

	return otlploghttp.New(ctx)
}
