package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestInitializeOTelDisabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	if cfg.Enabled {
		t.Fatal("tracing should be disabled by default")
	}

	providers, err := InitializeOTel(cfg, slog.Default())
	if err != nil {
		t.Fatalf("InitializeOTel failed: %v", err)
	}

	if providers.Tracer == nil {
		t.Fatal("disabled tracing must still return a usable tracer")
	}
	if providers.TracerProvider != nil {
		t.Error("disabled tracing should not build a provider")
	}

	// The no-op tracer must be safe to use
	ctx, span := providers.Tracer.Start(context.Background(), "noop-stage")
	span.End()

	if TraceIDFromContext(ctx) != "" {
		t.Error("no-op spans should not carry a trace ID")
	}

	if err := providers.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on disabled providers should be a no-op, got %v", err)
	}
}

func TestInitializeOTelEnabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.Enabled = true

	providers, err := InitializeOTel(cfg, slog.Default())
	if err != nil {
		t.Fatalf("InitializeOTel failed: %v", err)
	}
	defer providers.Shutdown(context.Background())

	if providers.TracerProvider == nil {
		t.Fatal("enabled tracing must build a provider")
	}

	ctx, span := providers.Tracer.Start(context.Background(), "test-stage")
	defer span.End()

	if TraceIDFromContext(ctx) == "" {
		t.Error("recording spans must carry a trace ID")
	}

	// Span helpers must not panic on a recording span
	AddSpanEvent(ctx, "rows_loaded", map[string]interface{}{
		"rows":    1460,
		"columns": 81,
		"source":  "train.csv",
		"sampled": true,
		"ratio":   1.0,
	})
	RecordError(ctx, errors.New("example failure"))
}

func TestRecordErrorOutsideSpan(t *testing.T) {
	// Must be a no-op without a recording span
	RecordError(context.Background(), errors.New("ignored"))
	AddSpanEvent(context.Background(), "ignored", nil)
}

func TestCaptureRuntimeStats(t *testing.T) {
	stats := CaptureRuntimeStats()

	if stats.Goroutines <= 0 {
		t.Errorf("expected at least one goroutine, got %d", stats.Goroutines)
	}
	if stats.HeapAllocMB <= 0 {
		t.Errorf("expected positive heap allocation, got %f", stats.HeapAllocMB)
	}

	val := stats.LogValue()
	if val.Kind() != slog.KindGroup {
		t.Errorf("expected group log value, got %v", val.Kind())
	}
}
