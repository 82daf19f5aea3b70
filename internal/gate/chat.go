// Package gate enforces active sanctions on the session hot paths:
// chat messages, voice state and player joins.
package gate

import (
	"context"
	"strings"
	"sync"
	"time"

	"cs-admin/internal/crash"
	"cs-admin/internal/models"
	"cs-admin/internal/platform"
	"cs-admin/internal/scheduler"
	"cs-admin/internal/service"
)

// warnThrottle caps repeat warnings to a blocked player.
const warnThrottle = 5 * time.Second

// SessionGate decides whether chat and voice events go through. The
// decision path reads caches only; store refreshes happen in the
// background so a slow database never stalls a tick.
type SessionGate struct {
	sched     *scheduler.Scheduler
	registry  *platform.Registry
	broadcast map[string]struct{}

	mutes *service.SanctionCache
	gags  *service.SanctionCache

	mu       sync.Mutex
	lastWarn map[uint64]time.Time
	now      func() time.Time
}

// NewSessionGate creates a gate. broadcastAliases are the admin chat
// commands that must pass the gag check untouched.
func NewSessionGate(sched *scheduler.Scheduler, registry *platform.Registry, broadcastAliases []string, mutes, gags *service.SanctionCache) *SessionGate {
	bypass := make(map[string]struct{}, len(broadcastAliases))
	for _, alias := range broadcastAliases {
		bypass[strings.ToLower(alias)] = struct{}{}
	}
	return &SessionGate{
		sched:     sched,
		registry:  registry,
		broadcast: bypass,
		mutes:     mutes,
		gags:      gags,
		lastWarn:  make(map[uint64]time.Time),
		now:       time.Now,
	}
}

// HandleChat reports whether the message may be shown. A gagged
// player's message is suppressed with a throttled warning. A cached
// record that has timed out stops blocking immediately; the sweep
// flips it and notifies. Admin broadcast commands bypass the gag so a
// gagged admin keeps the channel to the server.
func (g *SessionGate) HandleChat(p platform.Player, text string) bool {
	if g.isBroadcastCommand(text) {
		return true
	}

	record := g.gags.GetCached(p.SteamID())
	if record == nil || !record.IsActive() {
		g.refreshInBackground(p.SteamID())
		return true
	}

	g.warn(p, record, "gagged_warning_permanent", "gagged_warning_minutes")
	return false
}

// HandleVoice reports whether the player may speak, repairing the
// session voice flag when it has drifted from the cached record. On a
// cache miss the store answer reconciles the flag in the background.
func (g *SessionGate) HandleVoice(p platform.Player) bool {
	record := g.mutes.GetCached(p.SteamID())
	if record == nil || !record.IsActive() {
		g.refreshVoice(p.SteamID())
		return true
	}

	if !p.VoiceMuted() {
		p.SetVoiceMuted(true)
	}
	g.warn(p, record, "muted_warning_permanent", "muted_warning_minutes")
	return false
}

// HandleDisconnect clears session state the gate holds for a player.
func (g *SessionGate) HandleDisconnect(steamID uint64) {
	g.mu.Lock()
	delete(g.lastWarn, steamID)
	g.mu.Unlock()
}

// HandleRoundStart resets warning throttles so each round opens with
// a fresh reminder.
func (g *SessionGate) HandleRoundStart() {
	g.mu.Lock()
	g.lastWarn = make(map[uint64]time.Time)
	g.mu.Unlock()
}

func (g *SessionGate) warn(p platform.Player, record *models.SanctionRecord, permanentKey, minutesKey string) {
	g.mu.Lock()
	last, ok := g.lastWarn[p.SteamID()]
	now := g.now()
	if ok && now.Sub(last) < warnThrottle {
		g.mu.Unlock()
		return
	}
	g.lastWarn[p.SteamID()] = now
	g.mu.Unlock()

	if record.IsPermanent() {
		p.SendChat(models.Message(permanentKey))
		return
	}
	p.SendChat(models.Message(minutesKey, record.RemainingMinutes()))
}

// refreshInBackground warms the caches off the hot path. The current
// event already passed; the refreshed entry covers the next one.
func (g *SessionGate) refreshInBackground(steamID uint64) {
	crash.SafeGoroutine("gate-refresh", func() {
		ctx := context.Background()
		g.mutes.Get(ctx, steamID)
		g.gags.Get(ctx, steamID)
	})
}

// refreshVoice warms the caches and then reconciles the live voice
// flag with the store answer, setting or clearing it as needed.
func (g *SessionGate) refreshVoice(steamID uint64) {
	crash.SafeGoroutine("gate-refresh", func() {
		ctx := context.Background()
		mute := g.mutes.Get(ctx, steamID)
		g.gags.Get(ctx, steamID)

		shouldMute := mute != nil && mute.IsActive()
		g.sched.NextTick(func() {
			live := g.registry.Get(steamID)
			if live != nil && live.VoiceMuted() != shouldMute {
				live.SetVoiceMuted(shouldMute)
			}
		})
	})
}

func (g *SessionGate) isBroadcastCommand(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 || (trimmed[0] != '!' && trimmed[0] != '/') {
		return false
	}
	token := strings.ToLower(strings.Fields(trimmed[1:])[0])
	_, ok := g.broadcast[token]
	return ok
}
