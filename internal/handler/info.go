package handler

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"cs-admin/internal/logger"
	"cs-admin/internal/models"
)

func (d *Dispatcher) handlePlayers(c *Context) {
	players := d.registry.All()
	c.Reply(models.Message("players_header", len(players)))
	for _, p := range players {
		c.Reply(models.Message("players_entry", p.Slot(), p.Name(), p.SteamID()))
	}
}

func (d *Dispatcher) handleServerInfo(c *Context) {
	osName := models.Message("unknown")
	uptime := time.Duration(0)
	if info, err := host.Info(); err == nil {
		osName = info.Platform + " " + info.PlatformVersion
		uptime = time.Duration(info.Uptime) * time.Second
	} else {
		logger.Warningf("Failed to read host info: %v", err)
	}

	var cpuPercent float64
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}

	var memPercent float64
	if vm, err := mem.VirtualMemory(); err == nil {
		memPercent = vm.UsedPercent
	}

	c.Reply(models.Message("server_info",
		osName, uptime.Round(time.Minute).String(), cpuPercent, memPercent, d.registry.Count()))
}
