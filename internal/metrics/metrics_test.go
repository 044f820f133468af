package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

func TestMetricProvider_ServesPrometheus(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	mp, err := NewMetricProvider(context.Background(), config.TelemetryConfig{
		Enabled:       true,
		ServiceName:   "swap-test",
		TraceExporter: "console",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := otel.Meter("test").Int64Counter("swap_test_total")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	counter.Add(context.Background(), 3)

	srv := httptest.NewServer(mp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "swap_test_total") {
		t.Errorf("expected counter in exposition, got:\n%s", body)
	}
}

func TestServer_StopsOnCancel(t *testing.T) {
	mp, err := NewMetricProvider(context.Background(), config.TelemetryConfig{ServiceName: "swap-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewServer(0, mp, logger.New(io.Discard, logger.LevelError, "test", nil)).Run(ctx); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
