package infrastructure

import (
	"log/slog"
	"runtime"
)

// RuntimeStats is a point-in-time snapshot of process resource usage.
// Training hundreds of trees is memory-heavy; a snapshot logged at stage
// boundaries makes runaway allocation visible without a metrics backend.
type RuntimeStats struct {
	Goroutines     int
	HeapAllocMB    float64
	HeapSysMB      float64
	GCCount        uint32
	GCPauseTotalMS float64
}

// CaptureRuntimeStats reads the current runtime counters.
func CaptureRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocMB:    float64(mem.HeapAlloc) / (1024 * 1024),
		HeapSysMB:      float64(mem.HeapSys) / (1024 * 1024),
		GCCount:        mem.NumGC,
		GCPauseTotalMS: float64(mem.PauseTotalNs) / 1e6,
	}
}

// LogValue implements slog.LogValuer so a snapshot logs as a group.
func (s RuntimeStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("goroutines", s.Goroutines),
		slog.Float64("heap_alloc_mb", s.HeapAllocMB),
		slog.Float64("heap_sys_mb", s.HeapSysMB),
		slog.Int("gc_count", int(s.GCCount)),
		slog.Float64("gc_pause_total_ms", s.GCPauseTotalMS),
	)
}
