package systemstats

import (
	"fmt"
	"time"

	null "gopkg.in/guregu/null.v2"
)

// Snapshot describes the workstation at the start of a run. Fields backed
// by probes that can fail independently are nullable rather than zero, so a
// missing value is distinguishable from a real zero.
type Snapshot struct {
	CollectedAt time.Time

	Hostname        string
	OperatingSystem string
	Platform        string
	PlatformVersion string

	UptimeSeconds null.Int

	Loadavg1min  null.Float
	Loadavg5min  null.Float
	Loadavg15min null.Float

	MemoryTotalBytes     null.Int
	MemoryAvailableBytes null.Int

	LogicalCPUs null.Int
}

// LogLines renders the snapshot as run log header entries.
func (s Snapshot) LogLines() []string {
	lines := []string{
		fmt.Sprintf("Host: %s (%s %s %s)", s.Hostname, s.OperatingSystem, s.Platform, s.PlatformVersion),
	}
	if s.UptimeSeconds.Valid {
		lines = append(lines, fmt.Sprintf("Uptime: %s", (time.Duration(s.UptimeSeconds.Int64) * time.Second).String()))
	}
	if s.MemoryTotalBytes.Valid && s.MemoryAvailableBytes.Valid {
		lines = append(lines, fmt.Sprintf("Memory: %.1f GB available of %.1f GB",
			float64(s.MemoryAvailableBytes.Int64)/1024/1024/1024,
			float64(s.MemoryTotalBytes.Int64)/1024/1024/1024))
	}
	if s.LogicalCPUs.Valid {
		lines = append(lines, fmt.Sprintf("CPUs: %d logical", s.LogicalCPUs.Int64))
	}
	if s.Loadavg1min.Valid {
		lines = append(lines, fmt.Sprintf("Load average: %.2f / %.2f / %.2f",
			s.Loadavg1min.Float64, s.Loadavg5min.Float64, s.Loadavg15min.Float64))
	}
	return lines
}
