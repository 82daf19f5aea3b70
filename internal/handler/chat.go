package handler

import (
	"strings"

	"cs-admin/internal/logger"
	"cs-admin/internal/models"
)

// handleAsay sends to the admin channel: every session holding the
// chat capability, plus the console log.
func (d *Dispatcher) handleAsay(c *Context) {
	text := models.Message("asay_format", d.senderName(c), strings.Join(c.Args, " "))
	for _, p := range d.registry.All() {
		if d.perms.Has(p.SteamID(), d.cfg.Permissions.Chat) {
			p.SendChat(text)
		}
	}
	logger.Info(text)
}

// handleSay announces to everyone with the sender's name attached.
func (d *Dispatcher) handleSay(c *Context) {
	d.broadcast(models.Message("say_format", d.senderName(c), strings.Join(c.Args, " ")))
}

// handleCsay announces to everyone in the center-text style.
func (d *Dispatcher) handleCsay(c *Context) {
	d.broadcast(models.Message("csay_format", strings.Join(c.Args, " ")))
}

// handleHsay announces to everyone without attribution.
func (d *Dispatcher) handleHsay(c *Context) {
	d.broadcast(models.Message("hsay_format", strings.Join(c.Args, " ")))
}

// handlePsay whispers to one player.
func (d *Dispatcher) handlePsay(c *Context) {
	target := d.findPlayer(c.Args[0])
	if target == nil {
		c.Reply(models.Message("player_not_found"))
		return
	}
	text := models.Message("psay_format", d.senderName(c), strings.Join(c.Args[1:], " "))
	target.SendChat(text)
	if c.Sender == nil || c.Sender.SteamID() != target.SteamID() {
		c.Reply(text)
	}
}
