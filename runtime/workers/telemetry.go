package workers

import (
	"chat-rooms/contract"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically logs room occupancy together with the
// process's own CPU and memory usage. Observability only, no side effects
// on the registry.
type TelemetryWorker struct {
	log      *slog.Logger
	presence contract.Presence
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, presence contract.Presence, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, presence: presence, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			cpu, err := p.CPUPercent()
			if err != nil {
				w.log.Error("Error while finding process cpu usage", "err", err)
				continue
			}
			ram, err := p.MemoryPercent()
			if err != nil {
				w.log.Error("Error while finding process ram usage", "err", err)
				continue
			}
			w.log.Info("Telemetry",
				"active_users", w.presence.Count(),
				"cpu_percent", cpu,
				"ram_percent", ram)
		}
	}
}
