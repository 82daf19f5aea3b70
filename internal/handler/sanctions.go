package handler

import (
	"errors"

	"cs-admin/internal/models"
	"cs-admin/internal/platform"
	"cs-admin/internal/service"
	"cs-admin/internal/storage"
)

func (d *Dispatcher) handleBan(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	minutes, ok := parseDuration(c.Args[1])
	if !ok {
		c.Reply(models.Message("invalid_duration"))
		return
	}
	reason := reasonFrom(c.Args, 2)

	record, err := service.Ban(c.ActorContext(), target.SteamID(), minutes, reason)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadySanctioned) {
			c.Reply(models.Message("player_already_banned", target.Name()))
		}
		return
	}

	steamID := target.SteamID()
	targetName := target.Name()
	d.broadcast(models.Message("banned_notification", d.senderName(c), targetName, durationText(minutes), orNoReason(reason)))
	d.notifier.NotifySanction(models.KindBan, targetName, record)

	kickReason := models.Message("ban_kick_reason_permanent", orNoReason(reason))
	if minutes > 0 {
		kickReason = models.Message("ban_kick_reason_minutes", minutes, orNoReason(reason))
	}
	d.sched.NextTick(func() {
		if live := d.registry.Get(steamID); live != nil {
			live.SendChat(models.Message("banned_personal", durationText(minutes), orNoReason(reason)))
			live.Kick(kickReason)
		}
	})
}

// handleAddBan records a ban for an offline steam ID. A connected
// session under that ID is still kicked.
func (d *Dispatcher) handleAddBan(c *Context) {
	steamID, ok := parseSteamID(c.Args[0])
	if !ok {
		c.Reply(models.Message("invalid_steamid"))
		return
	}
	minutes, ok := parseDuration(c.Args[1])
	if !ok {
		c.Reply(models.Message("invalid_duration"))
		return
	}
	reason := reasonFrom(c.Args, 2)

	record, err := service.Ban(c.ActorContext(), steamID, minutes, reason)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadySanctioned) {
			c.Reply(models.Message("steamid_already_banned", steamID))
		}
		return
	}

	c.Reply(models.Message("addban_success", steamID, durationText(minutes)))
	d.notifier.NotifySanction(models.KindBan, models.Message("unknown"), record)

	if live := d.registry.Get(steamID); live != nil {
		name := live.Name()
		kickReason := models.Message("ban_kick_reason_permanent", orNoReason(reason))
		if minutes > 0 {
			kickReason = models.Message("ban_kick_reason_minutes", minutes, orNoReason(reason))
		}
		d.sched.NextTick(func() {
			if p := d.registry.Get(steamID); p != nil {
				p.Kick(kickReason)
			}
		})
		d.broadcast(models.Message("banned_notification", d.senderName(c), name, durationText(minutes), orNoReason(reason)))
	}
}

func (d *Dispatcher) handleUnban(c *Context) {
	steamID, ok := parseSteamID(c.Args[0])
	if !ok {
		c.Reply(models.Message("invalid_steamid"))
		return
	}
	reason := reasonFrom(c.Args, 1)

	revoked, err := service.Unban(c.ActorContext(), steamID, reason)
	if err != nil {
		return
	}
	if !revoked {
		c.Reply(models.Message("steamid_not_banned", steamID))
		return
	}
	c.Reply(models.Message("unbanned_success", steamID, orNoReason(reason)))
	d.notifier.NotifyRevoke(models.KindBan, d.senderName(c), steamID, reason)
}

func (d *Dispatcher) handleMute(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	minutes, ok := parseDuration(c.Args[1])
	if !ok {
		c.Reply(models.Message("invalid_duration"))
		return
	}
	reason := reasonFrom(c.Args, 2)

	if d.applyMute(c, target, minutes, reason) {
		d.broadcast(models.Message("muted_notification", d.senderName(c), target.Name(), durationText(minutes), orNoReason(reason)))
	}
}

func (d *Dispatcher) handleUnmute(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	if d.liftMute(c, target) {
		c.Reply(models.Message("unmuted_success", target.Name()))
	} else {
		c.Reply(models.Message("player_not_muted", target.Name()))
	}
}

func (d *Dispatcher) handleGag(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	minutes, ok := parseDuration(c.Args[1])
	if !ok {
		c.Reply(models.Message("invalid_duration"))
		return
	}
	reason := reasonFrom(c.Args, 2)

	if d.applyGag(c, target, minutes, reason) {
		d.broadcast(models.Message("gagged_notification", d.senderName(c), target.Name(), durationText(minutes), orNoReason(reason)))
	}
}

func (d *Dispatcher) handleUngag(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	if d.liftGag(c, target) {
		c.Reply(models.Message("ungagged_success", target.Name()))
	} else {
		c.Reply(models.Message("player_not_gagged", target.Name()))
	}
}

// handleSilence applies mute and gag together. A half-applied pair
// is possible when one side is already active; each side reports
// independently.
func (d *Dispatcher) handleSilence(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	minutes, ok := parseDuration(c.Args[1])
	if !ok {
		c.Reply(models.Message("invalid_duration"))
		return
	}
	reason := reasonFrom(c.Args, 2)

	muted := d.applyMute(c, target, minutes, reason)
	gagged := d.applyGag(c, target, minutes, reason)
	if muted || gagged {
		d.broadcast(models.Message("silenced_notification", d.senderName(c), target.Name(), durationText(minutes), orNoReason(reason)))
	}
}

func (d *Dispatcher) handleUnsilence(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	unmuted := d.liftMute(c, target)
	ungagged := d.liftGag(c, target)
	if unmuted || ungagged {
		c.Reply(models.Message("unsilenced_success", target.Name()))
	}
}

func (d *Dispatcher) handleKick(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	reason := reasonFrom(c.Args, 1)
	steamID := target.SteamID()
	targetName := target.Name()

	d.broadcast(models.Message("kicked_notification", d.senderName(c), targetName, orNoReason(reason)))
	d.notifier.NotifyKick(d.senderName(c), targetName, steamID, reason)
	d.sched.NextTick(func() {
		if live := d.registry.Get(steamID); live != nil {
			live.Kick(models.Message("kick_reason", orNoReason(reason)))
		}
	})
}

func (d *Dispatcher) applyMute(c *Context, target platform.Player, minutes int, reason string) bool {
	record, err := service.Mute(c.ActorContext(), target.SteamID(), minutes, reason)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadySanctioned) {
			c.Reply(models.Message("player_already_muted", target.Name()))
		}
		return false
	}
	steamID := target.SteamID()
	d.sched.NextTick(func() {
		if live := d.registry.Get(steamID); live != nil {
			live.SetVoiceMuted(true)
		}
	})
	d.notifier.NotifySanction(models.KindMute, target.Name(), record)
	return true
}

func (d *Dispatcher) applyGag(c *Context, target platform.Player, minutes int, reason string) bool {
	record, err := service.Gag(c.ActorContext(), target.SteamID(), minutes, reason)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadySanctioned) {
			c.Reply(models.Message("player_already_gagged", target.Name()))
		}
		return false
	}
	d.notifier.NotifySanction(models.KindGag, target.Name(), record)
	return true
}

func (d *Dispatcher) liftMute(c *Context, target platform.Player) bool {
	revoked, err := service.Unmute(c.ActorContext(), target.SteamID(), reasonFrom(c.Args, 1))
	if err != nil || !revoked {
		return false
	}
	steamID := target.SteamID()
	d.sched.NextTick(func() {
		if live := d.registry.Get(steamID); live != nil {
			live.SetVoiceMuted(false)
		}
	})
	d.notifier.NotifyRevoke(models.KindMute, d.senderName(c), steamID, reasonFrom(c.Args, 1))
	return true
}

func (d *Dispatcher) liftGag(c *Context, target platform.Player) bool {
	revoked, err := service.Ungag(c.ActorContext(), target.SteamID(), reasonFrom(c.Args, 1))
	if err != nil || !revoked {
		return false
	}
	d.notifier.NotifyRevoke(models.KindGag, d.senderName(c), target.SteamID(), reasonFrom(c.Args, 1))
	return true
}

func orNoReason(reason string) string {
	if reason == "" {
		return models.Message("no_reason")
	}
	return reason
}
