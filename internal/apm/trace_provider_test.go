package apm

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single", "api-key=abc", map[string]string{"api-key": "abc"}},
		{"multiple with spaces", " a = 1 , b=2", map[string]string{"a": "1", "b": "2"}},
		{"value with equals", "auth=Basic x==", map[string]string{"auth": "Basic x=="}},
		{"malformed pair skipped", "novalue,k=v", map[string]string{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHeaders(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHeaders(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewTraceProvider_Disabled(t *testing.T) {
	for _, cfg := range []config.TelemetryConfig{
		{Enabled: false, TraceExporter: "console"},
		{Enabled: true, TraceExporter: "none"},
	} {
		tp, err := NewTraceProvider(context.Background(), cfg, testLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := tp.(emptyTraceProvider); !ok {
			t.Errorf("expected empty provider for %+v, got %T", cfg, tp)
		}
		if err := tp.Stop(context.Background()); err != nil {
			t.Errorf("stop: %v", err)
		}
	}
}

func TestNewTraceProvider_UnknownExporter(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: true, TraceExporter: "jaeger"}
	if _, err := NewTraceProvider(context.Background(), cfg, testLogger()); err == nil {
		t.Fatal("expected error for unknown exporter")
	}
}

func TestNewTraceProvider_Console(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := config.TelemetryConfig{Enabled: true, ServiceName: "swap-test", TraceExporter: "console"}

	tp, err := NewTraceProvider(context.Background(), cfg, testLogger(), WithConsoleWriter(&buf), WithSyncExport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "swap.execute")
	span.End()

	if err := tp.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "swap.execute") {
		t.Errorf("expected span name in output, got %q", out)
	}
	if !strings.Contains(out, "swap-test") {
		t.Errorf("expected service name in output, got %q", out)
	}
}
