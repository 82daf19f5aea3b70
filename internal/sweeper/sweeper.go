// Package sweeper drives the periodic expiry pass: session flags and
// notices on the tick goroutine, bulk database reconciliation in the
// background.
package sweeper

import (
	"time"

	"cs-admin/internal/crash"
	"cs-admin/internal/models"
	"cs-admin/internal/platform"
	"cs-admin/internal/scheduler"
	"cs-admin/internal/service"
)

// Sweeper owns the recurring sweep.
type Sweeper struct {
	sched    *scheduler.Scheduler
	registry *platform.Registry
	interval time.Duration

	mutes *service.SanctionCache
	gags  *service.SanctionCache

	// reconcile flips overdue database rows; it runs off the tick
	// goroutine.
	reconcile func()

	cancel func()
}

// New creates a sweeper over the connected-player registry.
func New(sched *scheduler.Scheduler, registry *platform.Registry, interval time.Duration, mutes, gags *service.SanctionCache, reconcile func()) *Sweeper {
	return &Sweeper{
		sched:     sched,
		registry:  registry,
		interval:  interval,
		mutes:     mutes,
		gags:      gags,
		reconcile: reconcile,
	}
}

// Start schedules the recurring sweep.
func (s *Sweeper) Start() {
	s.cancel = s.sched.RepeatEvery(s.interval, s.Sweep)
}

// Stop cancels the recurring sweep.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Sweep runs on the tick goroutine. Phase one releases connected
// players whose cached mute or gag has timed out: notice, voice flag,
// cache eviction. Phase two reconciles the tables in the background
// so overdue rows for offline players flip too.
func (s *Sweeper) Sweep() {
	for _, p := range s.registry.All() {
		s.releaseIfExpired(p, s.mutes, "mute_expired")
		s.releaseIfExpired(p, s.gags, "gag_expired")
	}

	crash.SafeGoroutine("sweep-reconcile", s.reconcile)
}

func (s *Sweeper) releaseIfExpired(p platform.Player, cache *service.SanctionCache, noticeKey string) {
	record := cache.GetCached(p.SteamID())
	if record == nil || !record.IsExpired() {
		return
	}

	if cache.Kind() == models.KindMute && p.VoiceMuted() {
		p.SetVoiceMuted(false)
	}
	p.SendChat(models.Message(noticeKey))
	cache.Invalidate(p.SteamID())
}
