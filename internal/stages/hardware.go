package stages

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// Hardware is the host summary printed during POST. Every field has a
// printable fallback.
type Hardware struct {
	CPUBrand      string
	CPUCount      int
	CPUMHz        float64
	TotalMemoryKB uint64
	Hostname      string
	OSName        string
	NetworkCount  int
	DiskCount     int
}

const probeTimeout = 2 * time.Second

// ProbeHardware queries the real host and substitutes fallbacks for anything
// it cannot read.
func ProbeHardware() Hardware {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	hw := Hardware{CPUBrand: "Unknown CPU", Hostname: "SYSTEM-PC", OSName: "Unknown OS"}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		if infos[0].ModelName != "" {
			hw.CPUBrand = infos[0].ModelName
		}
		hw.CPUMHz = infos[0].Mhz
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		hw.CPUCount = n
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		hw.TotalMemoryKB = vm.Total / 1024
	}
	if info, err := host.InfoWithContext(ctx); err == nil {
		if info.Hostname != "" {
			hw.Hostname = info.Hostname
		}
		if info.Platform != "" {
			hw.OSName = info.Platform
		} else if info.OS != "" {
			hw.OSName = info.OS
		}
	}
	if ifaces, err := net.InterfacesWithContext(ctx); err == nil {
		hw.NetworkCount = len(ifaces)
	}
	if parts, err := disk.PartitionsWithContext(ctx, false); err == nil {
		hw.DiskCount = len(parts)
	}
	return hw
}
