package workers

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is the latest self-measurement of the server process.
type ProcessStats struct {
	RSSBytes    uint64
	CPUPercent  float64
	CollectedAt time.Time
}

// HealthMonitor periodically samples the process's memory and CPU usage
// and keeps the latest snapshot for the health endpoint.
type HealthMonitor struct {
	log      *slog.Logger
	interval time.Duration

	mu     sync.RWMutex
	latest ProcessStats
}

func NewHealthMonitor(log *slog.Logger, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{log: log, interval: interval}
}

// GetLatest returns the most recent snapshot. Zero-valued until the
// first tick completes.
func (w *HealthMonitor) GetLatest() ProcessStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// Run samples self stats on every tick until the context is canceled.
func (w *HealthMonitor) Run(ctx context.Context) error {
	w.log.Info("Starting health monitoring worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			w.mu.Lock()
			w.latest = ProcessStats{RSSBytes: rss, CPUPercent: cpu, CollectedAt: time.Now().UTC()}
			w.mu.Unlock()

			w.log.Debug("Process health", "rss_bytes", rss, "cpu_percent", cpu)
		}
	}
}

// getSelfStats retrieves memory and CPU metrics for the given process.
func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpu, nil
}
