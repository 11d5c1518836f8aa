package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("episcrape.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// PerfSample is one reading of the process' resource usage.
type PerfSample struct {
	CPUPercent  float64
	AllocatedMB int64
	Goroutines  int64
}

func SamplePerf() PerfSample {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sample := PerfSample{
		AllocatedMB: int64(memStats.Alloc / 1_000_000),
		Goroutines:  int64(runtime.NumGoroutine()),
	}
	// 0 compares against the previous call instead of blocking
	usage, err := cpu.Percent(0, false)
	if err == nil && len(usage) > 0 {
		sample.CPUPercent = usage[0]
	} else if err != nil {
		slog.Debug("failed to read cpu usage", "err", err)
	}
	return sample
}

// InstrumentPerfStats records a PerfSample every interval until ctx is done,
// long running commands (scheduled crawls) call this.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sample := SamplePerf()
				cpuGauge.Record(ctx, sample.CPUPercent)
				memoryGauge.Record(ctx, sample.AllocatedMB)
				goroutineGauge.Record(ctx, sample.Goroutines)
				slog.DebugContext(
					ctx, "perf stats",
					"cpu", sample.CPUPercent,
					"allocated_mb", sample.AllocatedMB,
					"goroutines", sample.Goroutines,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
