// Package handler parses and dispatches admin commands. The command
// set is a static table; configuration contributes aliases only, not
// behavior.
package handler

import (
	"context"
	"strconv"
	"strings"

	"cs-admin/internal/actor"
	"cs-admin/internal/config"
	"cs-admin/internal/logger"
	"cs-admin/internal/models"
	"cs-admin/internal/platform"
	"cs-admin/internal/scheduler"
	"cs-admin/internal/webhook"
)

// Command is one table entry. Permission is the capability flag the
// sender must hold; the console bypasses the check.
type Command struct {
	Name       string
	Aliases    []string
	Permission string
	MinArgs    int
	UsageKey   string
	Run        func(d *Dispatcher, c *Context)
}

// Context carries one invocation. Sender is nil for the server
// console.
type Context struct {
	Sender platform.Player
	Args   []string

	reply func(string)
}

// Reply sends text back to the invoking admin or the console log.
func (c *Context) Reply(text string) {
	c.reply(text)
}

// ActorContext returns a request context attributed to the sender.
func (c *Context) ActorContext() context.Context {
	if c.Sender == nil {
		return actor.WithActor(context.Background(), actor.Console())
	}
	return actor.WithActor(context.Background(), actor.Actor{
		Name:    c.Sender.Name(),
		SteamID: c.Sender.SteamID(),
	})
}

// Dispatcher resolves aliases to commands and runs them.
type Dispatcher struct {
	registry *platform.Registry
	perms    *platform.Permissions
	sched    *scheduler.Scheduler
	notifier *webhook.Notifier
	cfg      *config.Config

	byAlias map[string]*Command
}

// NewDispatcher builds the dispatcher and its alias table from the
// configured command names.
func NewDispatcher(cfg *config.Config, registry *platform.Registry, perms *platform.Permissions, sched *scheduler.Scheduler, notifier *webhook.Notifier) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		perms:    perms,
		sched:    sched,
		notifier: notifier,
		cfg:      cfg,
		byAlias:  make(map[string]*Command),
	}

	for _, cmd := range d.commandTable() {
		c := cmd
		for _, alias := range append([]string{c.Name}, c.Aliases...) {
			d.byAlias[strings.ToLower(alias)] = &c
		}
	}
	return d
}

func (d *Dispatcher) commandTable() []Command {
	p := d.cfg.Permissions
	c := d.cfg.Commands
	return []Command{
		{Name: "asay", Aliases: rest(c.Asay), Permission: p.Chat, MinArgs: 1, UsageKey: "asay_usage", Run: (*Dispatcher).handleAsay},
		{Name: "say", Aliases: rest(c.Say), Permission: p.Chat, MinArgs: 1, UsageKey: "say_usage", Run: (*Dispatcher).handleSay},
		{Name: "csay", Aliases: rest(c.Csay), Permission: p.Chat, MinArgs: 1, UsageKey: "say_usage", Run: (*Dispatcher).handleCsay},
		{Name: "hsay", Aliases: rest(c.Hsay), Permission: p.Chat, MinArgs: 1, UsageKey: "say_usage", Run: (*Dispatcher).handleHsay},
		{Name: "psay", Aliases: rest(c.Psay), Permission: p.Chat, MinArgs: 2, UsageKey: "psay_usage", Run: (*Dispatcher).handlePsay},
		{Name: "ban", Aliases: rest(c.Ban), Permission: p.Ban, MinArgs: 2, UsageKey: "ban_usage", Run: (*Dispatcher).handleBan},
		{Name: "addban", Aliases: rest(c.AddBan), Permission: p.Ban, MinArgs: 2, UsageKey: "addban_usage", Run: (*Dispatcher).handleAddBan},
		{Name: "unban", Aliases: rest(c.Unban), Permission: p.Unban, MinArgs: 1, UsageKey: "unban_usage", Run: (*Dispatcher).handleUnban},
		{Name: "mute", Aliases: rest(c.Mute), Permission: p.Mute, MinArgs: 2, UsageKey: "mute_usage", Run: (*Dispatcher).handleMute},
		{Name: "unmute", Aliases: rest(c.Unmute), Permission: p.Mute, MinArgs: 1, UsageKey: "unmute_usage", Run: (*Dispatcher).handleUnmute},
		{Name: "gag", Aliases: rest(c.Gag), Permission: p.Gag, MinArgs: 2, UsageKey: "gag_usage", Run: (*Dispatcher).handleGag},
		{Name: "ungag", Aliases: rest(c.Ungag), Permission: p.Gag, MinArgs: 1, UsageKey: "ungag_usage", Run: (*Dispatcher).handleUngag},
		{Name: "silence", Aliases: rest(c.Silence), Permission: p.Silence, MinArgs: 2, UsageKey: "mute_usage", Run: (*Dispatcher).handleSilence},
		{Name: "unsilence", Aliases: rest(c.Unsilence), Permission: p.Silence, MinArgs: 1, UsageKey: "unmute_usage", Run: (*Dispatcher).handleUnsilence},
		{Name: "kick", Aliases: rest(c.Kick), Permission: p.Kick, MinArgs: 1, UsageKey: "kick_usage", Run: (*Dispatcher).handleKick},
		{Name: "addadmin", Aliases: rest(c.AddAdmin), Permission: p.Root, MinArgs: 4, UsageKey: "addadmin_usage", Run: (*Dispatcher).handleAddAdmin},
		{Name: "removeadmin", Aliases: rest(c.RemoveAdmin), Permission: p.Root, MinArgs: 1, UsageKey: "removeadmin_usage", Run: (*Dispatcher).handleRemoveAdmin},
		{Name: "listadmins", Aliases: rest(c.ListAdmins), Permission: p.ListAdmins, Run: (*Dispatcher).handleListAdmins},
		{Name: "players", Aliases: rest(c.ListPlayers), Permission: p.ListPlayers, Run: (*Dispatcher).handlePlayers},
		{Name: "who", Aliases: rest(c.Who), Permission: p.Generic, MinArgs: 1, Run: (*Dispatcher).handleWho},
		{Name: "serverinfo", Aliases: rest(c.ServerInfo), Permission: p.Generic, Run: (*Dispatcher).handleServerInfo},
	}
}

// Dispatch parses and runs one command line. sender is nil for the
// console. Player invocations need a ! or / prefix so plain chat is
// never mistaken for a command; the console needs none. Returns false
// when the line is not a known command.
func (d *Dispatcher) Dispatch(sender platform.Player, line string) bool {
	trimmed := strings.TrimSpace(line)
	if sender != nil {
		if len(trimmed) < 2 || (trimmed[0] != '!' && trimmed[0] != '/') {
			return false
		}
	}

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return false
	}

	name := strings.ToLower(strings.TrimLeft(fields[0], "!/"))
	cmd, ok := d.byAlias[name]
	if !ok {
		return false
	}

	ctx := &Context{Sender: sender, Args: fields[1:], reply: d.replyFunc(sender)}

	if sender != nil && !d.perms.Has(sender.SteamID(), cmd.Permission) {
		ctx.Reply(models.Message("no_permission"))
		return true
	}
	if len(ctx.Args) < cmd.MinArgs {
		if cmd.UsageKey != "" {
			ctx.Reply(models.Message(cmd.UsageKey))
		}
		return true
	}

	cmd.Run(d, ctx)
	return true
}

func (d *Dispatcher) replyFunc(sender platform.Player) func(string) {
	if sender == nil {
		return func(text string) { logger.Info(text) }
	}
	return func(text string) {
		sender.SendChat(models.Message("prefix") + " " + text)
	}
}

// broadcast announces text to every connected player.
func (d *Dispatcher) broadcast(text string) {
	full := models.Message("prefix") + " " + text
	for _, p := range d.registry.All() {
		p.SendChat(full)
	}
}

// findPlayer resolves a target argument: "#slot", a full steam ID, or
// a case-insensitive name substring. Ambiguous or unknown targets
// resolve to nil.
func (d *Dispatcher) findPlayer(arg string) platform.Player {
	if strings.HasPrefix(arg, "#") {
		slot, err := strconv.Atoi(arg[1:])
		if err != nil {
			return nil
		}
		for _, p := range d.registry.All() {
			if p.Slot() == slot {
				return p
			}
		}
		return nil
	}

	if id, err := strconv.ParseUint(arg, 10, 64); err == nil && len(arg) == 17 {
		return d.registry.Get(id)
	}

	needle := strings.ToLower(arg)
	var match platform.Player
	for _, p := range d.registry.All() {
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			if match != nil {
				return nil
			}
			match = p
		}
	}
	return match
}

func (d *Dispatcher) senderName(c *Context) string {
	if c.Sender == nil {
		return models.Message("console_name")
	}
	return c.Sender.Name()
}

func parseDuration(arg string) (int, bool) {
	minutes, err := strconv.Atoi(arg)
	if err != nil || minutes < 0 {
		return 0, false
	}
	return minutes, true
}

func parseSteamID(arg string) (uint64, bool) {
	id, err := strconv.ParseUint(arg, 10, 64)
	return id, err == nil
}

func reasonFrom(args []string, from int) string {
	if len(args) <= from {
		return ""
	}
	return strings.Join(args[from:], " ")
}

func durationText(minutes int) string {
	if minutes == 0 {
		return models.Message("duration_permanently")
	}
	return models.Message("duration_for_minutes", minutes)
}

func rest(aliases []string) []string {
	if len(aliases) <= 1 {
		return nil
	}
	return aliases[1:]
}
