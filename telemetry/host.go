package telemetry

import (
	"context"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/cvhariharan/actordir/models"
)

// HostReader reports point-in-time process and host resources.
type HostReader interface {
	Read(ctx context.Context) (models.HostStats, error)
}

// SystemHost reads the running process and host through gopsutil. Fields it
// cannot read are left zero; the CPU count falls back to runtime.NumCPU.
type SystemHost struct{}

func (SystemHost) Read(ctx context.Context) (models.HostStats, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := models.HostStats{
		Memory: models.MemoryStats{
			HeapAlloc: ms.HeapAlloc,
			HeapSys:   ms.HeapSys,
		},
		CPUCount: runtime.NumCPU(),
	}

	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		stats.CPUCount = n
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.Memory.HostTotal = vm.Total
		stats.Memory.HostUsed = vm.Used
	}
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil {
			stats.Memory.RSS = mi.RSS
		}
	}
	return stats, nil
}
