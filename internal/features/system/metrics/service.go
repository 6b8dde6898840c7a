package system_metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

const cpuSampleWindow = 200 * time.Millisecond

// HostMetrics holds usage percentages. A nil field means the probe failed.
type HostMetrics struct {
	CPUPercent    *float64 `json:"cpuPercent"`
	MemoryPercent *float64 `json:"memoryPercent"`
	DiskPercent   *float64 `json:"diskPercent"`
	DiskPath      string   `json:"diskPath"`
}

type HostMetricsService struct {
	diskPath string
	logger   *slog.Logger
}

func (s *HostMetricsService) Collect(ctx context.Context) *HostMetrics {
	metrics := &HostMetrics{DiskPath: s.diskPath}

	if percents, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false); err != nil {
		s.logger.Warn("Failed to read CPU usage", "error", err)
	} else if len(percents) > 0 {
		metrics.CPUPercent = &percents[0]
	}

	if memory, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		s.logger.Warn("Failed to read memory usage", "error", err)
	} else {
		metrics.MemoryPercent = &memory.UsedPercent
	}

	if usage, err := disk.UsageWithContext(ctx, s.diskPath); err != nil {
		s.logger.Warn("Failed to read disk usage", "path", s.diskPath, "error", err)
	} else {
		metrics.DiskPercent = &usage.UsedPercent
	}

	return metrics
}
