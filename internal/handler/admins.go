package handler

import (
	"strconv"

	"cs-admin/internal/models"
	"cs-admin/internal/service"
)

func (d *Dispatcher) handleAddAdmin(c *Context) {
	steamID, ok := parseSteamID(c.Args[0])
	if !ok {
		c.Reply(models.Message("invalid_steamid"))
		return
	}
	name := c.Args[1]
	flags := c.Args[2]
	immunity, err := strconv.Atoi(c.Args[3])
	if err != nil || immunity < 0 {
		c.Reply(models.Message("addadmin_usage"))
		return
	}
	days := 0
	if len(c.Args) > 4 {
		days, err = strconv.Atoi(c.Args[4])
		if err != nil || days < 0 {
			c.Reply(models.Message("addadmin_usage"))
			return
		}
	}

	record, err := service.UpsertAdmin(c.ActorContext(), steamID, name, flags, immunity, days)
	if err != nil {
		return
	}
	c.Reply(models.Message("admin_added", record.Name, record.SteamID, record.Flags, record.Immunity))

	// A connected session picks the new flags up immediately.
	d.sched.NextTick(func() {
		if live := d.registry.Get(steamID); live != nil {
			d.perms.Revoke(steamID)
			d.perms.Grant(steamID, record.FlagList()...)
		}
	})
}

func (d *Dispatcher) handleRemoveAdmin(c *Context) {
	steamID, ok := parseSteamID(c.Args[0])
	if !ok {
		c.Reply(models.Message("invalid_steamid"))
		return
	}

	removed, err := service.RemoveAdmin(c.ActorContext(), steamID)
	if err != nil {
		return
	}
	if !removed {
		c.Reply(models.Message("admin_not_found", steamID))
		return
	}
	c.Reply(models.Message("admin_removed", steamID))
	d.sched.NextTick(func() {
		d.perms.Revoke(steamID)
	})
}

func (d *Dispatcher) handleListAdmins(c *Context) {
	records := service.AdminList(c.ActorContext())
	c.Reply(models.Message("admin_list_header", len(records)))
	for _, r := range records {
		c.Reply(models.Message("admin_list_entry", r.Name, r.SteamID, r.Immunity, r.Flags))
	}
}

func (d *Dispatcher) handleWho(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}

	admin := service.ActiveAdmin(c.ActorContext(), target.SteamID())
	if admin == nil {
		c.Reply(models.Message("who_no_admin", target.Name(), target.SteamID()))
		return
	}
	c.Reply(models.Message("who_entry", target.Name(), target.SteamID(), admin.Immunity, admin.Flags))
}
