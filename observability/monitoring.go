package observability

import (
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

type Health struct {
	Status      string  `json:"status"`
	Uptime      string  `json:"uptime"`
	Connections int     `json:"connections"`
	RSSBytes    uint64  `json:"rss_bytes"`
	CPUPercent  float64 `json:"cpu_percent"`
}

// ProcessMonitor reports the health of the running server process.
type ProcessMonitor struct {
	log         *slog.Logger
	proc        *process.Process
	startedAt   time.Time
	connections func() int
}

func NewProcessMonitor(log *slog.Logger, connections func() int) (*ProcessMonitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessMonitor{log: log, proc: p, startedAt: time.Now(), connections: connections}, nil
}

// Snapshot never fails: process stats that cannot be read are left at zero.
func (m *ProcessMonitor) Snapshot() Health {
	h := Health{
		Status:      "UP",
		Uptime:      time.Since(m.startedAt).Round(time.Second).String(),
		Connections: m.connections(),
	}
	if mem, err := m.proc.MemoryInfo(); err == nil {
		h.RSSBytes = mem.RSS
	} else {
		m.log.Debug("Failed to read memory info", "error", err)
	}
	if cpu, err := m.proc.CPUPercent(); err == nil {
		h.CPUPercent = cpu
	} else {
		m.log.Debug("Failed to read cpu percent", "error", err)
	}
	return h
}
