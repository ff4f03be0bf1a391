package systemstats

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	null "gopkg.in/guregu/null.v2"

	"github.com/yolo-ops/checker/util"
)

// Collect samples the workstation state for the run log header. Individual
// probe failures are tolerated: the snapshot simply carries null for that
// field, and the failure is only visible with --verbose.
func Collect(ctx context.Context, logger *util.Logger) Snapshot {
	snapshot := Snapshot{CollectedAt: time.Now()}

	hostInfo, err := host.InfoWithContext(ctx)
	if err != nil {
		logger.PrintVerbose("Systemstats: Failed to get host information: %s", err)
	} else {
		snapshot.Hostname = hostInfo.Hostname
		snapshot.OperatingSystem = hostInfo.OS
		snapshot.Platform = hostInfo.Platform
		snapshot.PlatformVersion = hostInfo.PlatformVersion
		snapshot.UptimeSeconds = null.IntFrom(int64(hostInfo.Uptime))
	}

	loadAvg, err := load.AvgWithContext(ctx)
	if err != nil {
		logger.PrintVerbose("Systemstats: Failed to get load average: %s", err)
	} else {
		snapshot.Loadavg1min = null.FloatFrom(loadAvg.Load1)
		snapshot.Loadavg5min = null.FloatFrom(loadAvg.Load5)
		snapshot.Loadavg15min = null.FloatFrom(loadAvg.Load15)
	}

	memory, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		logger.PrintVerbose("Systemstats: Failed to get memory stats: %s", err)
	} else {
		snapshot.MemoryTotalBytes = null.IntFrom(int64(memory.Total))
		snapshot.MemoryAvailableBytes = null.IntFrom(int64(memory.Available))
	}

	cpuCount, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		logger.PrintVerbose("Systemstats: Failed to get CPU count: %s", err)
	} else {
		snapshot.LogicalCPUs = null.IntFrom(int64(cpuCount))
	}

	return snapshot
}
