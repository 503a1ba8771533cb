package system

import (
	"context"
	"fmt"
	"ratebot/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host reads machine statistics through gopsutil. CPU model and load average are left empty when the
// platform does not expose them.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Stats(ctx context.Context) (domain.HostStats, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return domain.HostStats{}, fmt.Errorf("failed to read host info: %w", err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.HostStats{}, fmt.Errorf("failed to read memory info: %w", err)
	}

	stats := domain.HostStats{
		Hostname:        info.Hostname,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Uptime:          info.Uptime,
		MemTotal:        vm.Total,
		MemUsed:         vm.Used,
		MemUsedPercent:  vm.UsedPercent,
	}

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		stats.CPUModel = cpus[0].ModelName
	} else if err != nil {
		log.Debug().Err(err).Msg("cpu info unavailable")
	}

	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		stats.LogicalCPUs = n
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		stats.Load1 = avg.Load1
	} else {
		log.Debug().Err(err).Msg("load average unavailable")
	}

	return stats, nil
}
