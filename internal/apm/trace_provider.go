// Package apm installs the global OpenTelemetry tracer provider.
package apm

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

// Exporter selects where spans are sent.
type Exporter string

const (
	ExporterConsole  Exporter = "console"
	ExporterZipkin   Exporter = "zipkin"
	ExporterOTLPGRPC Exporter = "otlp-grpc"
	ExporterOTLPHTTP Exporter = "otlp-http"
	ExporterNone     Exporter = "none"
)

// TraceProvider flushes and stops the installed provider.
type TraceProvider interface {
	Stop(ctx context.Context) error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

func (p *traceProvider) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.tp.Shutdown(ctx)
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop(context.Context) error { return nil }

// NewEmptyTraceProvider leaves the global no-op provider in place.
func NewEmptyTraceProvider() TraceProvider {
	return emptyTraceProvider{}
}

type tracerOptions struct {
	consoleWriter io.Writer
	batch         bool
}

// TracerOption customizes NewTraceProvider.
type TracerOption func(*tracerOptions)

// WithConsoleWriter redirects the console exporter. Defaults to stderr so
// spans never mix with command output.
func WithConsoleWriter(w io.Writer) TracerOption {
	return func(o *tracerOptions) {
		o.consoleWriter = w
	}
}

// WithSyncExport exports each span as it ends instead of batching.
func WithSyncExport() TracerOption {
	return func(o *tracerOptions) {
		o.batch = false
	}
}

// NewTraceProvider builds the exporter named by cfg.TraceExporter and
// installs it as the global tracer provider with W3C propagation.
func NewTraceProvider(ctx context.Context, cfg config.TelemetryConfig, log logger.LoggerInterface, opts ...TracerOption) (TraceProvider, error) {
	o := &tracerOptions{consoleWriter: os.Stderr, batch: true}
	for _, opt := range opts {
		opt(o)
	}

	exporter := Exporter(cfg.TraceExporter)
	if !cfg.Enabled || exporter == ExporterNone {
		return NewEmptyTraceProvider(), nil
	}

	exp, err := newExporter(ctx, exporter, cfg, o)
	if err != nil {
		return nil, fmt.Errorf("trace exporter %s: %w", exporter, err)
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			attribute.String("otel.provider", string(exporter)),
		))
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	spanOpt := sdktrace.WithBatcher(exp)
	if !o.batch {
		spanOpt = sdktrace.WithSyncer(exp)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		spanOpt,
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	log.Info(ctx, "tracing enabled", "exporter", string(exporter), "endpoint", cfg.OTLPEndpoint)
	return &traceProvider{tp: tp}, nil
}

func newExporter(ctx context.Context, exporter Exporter, cfg config.TelemetryConfig, o *tracerOptions) (sdktrace.SpanExporter, error) {
	headers := ParseHeaders(cfg.OTLPHeaders)

	switch exporter {
	case ExporterConsole:
		return stdouttrace.New(stdouttrace.WithWriter(o.consoleWriter), stdouttrace.WithPrettyPrint())
	case ExporterZipkin:
		return zipkin.New(cfg.OTLPEndpoint)
	case ExporterOTLPGRPC:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint),
			otlptracegrpc.WithHeaders(headers),
		)
	case ExporterOTLPHTTP:
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint),
			otlptracehttp.WithHeaders(headers),
		)
	default:
		return nil, fmt.Errorf("unknown exporter %q", exporter)
	}
}

// ParseHeaders splits "k1=v1,k2=v2" into a map. Malformed pairs are skipped.
func ParseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}
