package gate

import (
	"context"
	"strings"

	"cs-admin/internal/crash"
	"cs-admin/internal/models"
	"cs-admin/internal/platform"
	"cs-admin/internal/scheduler"
	"cs-admin/internal/service"
)

// JoinReconciler aligns a freshly authorized session with persisted
// state: bans kick, mutes set the voice flag, admin grants load, and
// players with a history are announced to observing admins.
type JoinReconciler struct {
	sched    *scheduler.Scheduler
	registry *platform.Registry
	perms    *platform.Permissions

	bans   *service.SanctionCache
	mutes  *service.SanctionCache
	gags   *service.SanctionCache
	admins *service.AdminCache

	// observeFlag is the capability required to receive join history
	// summaries.
	observeFlag string
}

// NewJoinReconciler creates a reconciler.
func NewJoinReconciler(sched *scheduler.Scheduler, registry *platform.Registry, perms *platform.Permissions,
	bans, mutes, gags *service.SanctionCache, admins *service.AdminCache, observeFlag string) *JoinReconciler {
	return &JoinReconciler{
		sched:       sched,
		registry:    registry,
		perms:       perms,
		bans:        bans,
		mutes:       mutes,
		gags:        gags,
		admins:      admins,
		observeFlag: observeFlag,
	}
}

// HandleAuthorize runs when a session's steam ID is validated. The
// store lookups run off the tick goroutine; anything touching the
// session is marshalled back through the scheduler.
func (j *JoinReconciler) HandleAuthorize(p platform.Player) {
	steamID := p.SteamID()
	name := p.Name()

	// Fire-and-forget: flip overdue ban rows so the check below reads
	// settled state, without making the join wait on the bulk update.
	crash.SafeGoroutine("join-ban-reconcile", func() {
		j.bans.ReconcileExpired(context.Background())
	})

	crash.SafeGoroutine("join-reconcile", func() {
		ctx := context.Background()

		if ban := j.bans.Get(ctx, steamID); ban != nil {
			reason := j.kickReason(ban)
			summary := j.historySummary(ctx, steamID, name, true)
			j.sched.NextTick(func() {
				j.broadcastToObservers(summary)
				if live := j.registry.Get(steamID); live != nil {
					live.Kick(reason)
				}
			})
			return
		}

		mute := j.mutes.Get(ctx, steamID)
		j.gags.Get(ctx, steamID)
		admin := j.admins.Get(ctx, steamID)
		summary := j.historySummary(ctx, steamID, name, false)

		j.sched.NextTick(func() {
			live := j.registry.Get(steamID)
			if live == nil {
				return
			}
			if mute != nil {
				live.SetVoiceMuted(true)
			}
			if admin != nil {
				j.perms.Grant(steamID, admin.FlagList()...)
			}
			j.broadcastToObservers(summary)
		})
	})
}

// HandleDisconnect drops the session's capability flags.
func (j *JoinReconciler) HandleDisconnect(steamID uint64) {
	j.perms.Revoke(steamID)
}

func (j *JoinReconciler) kickReason(ban *models.SanctionRecord) string {
	if ban.IsPermanent() {
		return models.Message("ban_kick_reason_permanent", ban.Reason)
	}
	return models.Message("ban_kick_reason_minutes", ban.RemainingMinutes(), ban.Reason)
}

// historySummary formats the join announcement. Every join gets one,
// zero counts and "none" included.
func (j *JoinReconciler) historySummary(ctx context.Context, steamID uint64, name string, banned bool) string {
	bans := j.bans.TotalCount(ctx, steamID)
	mutes := j.mutes.TotalCount(ctx, steamID)
	gags := j.gags.TotalCount(ctx, steamID)

	var active []string
	if banned {
		active = append(active, models.Message("join_active_ban"))
	}
	if j.mutes.GetCached(steamID) != nil {
		active = append(active, models.Message("join_active_mute"))
	}
	if j.gags.GetCached(steamID) != nil {
		active = append(active, models.Message("join_active_gag"))
	}
	current := models.Message("join_active_none")
	if len(active) > 0 {
		current = strings.Join(active, "+")
	}

	return models.Message("join_summary", name, steamID, bans, mutes, gags, current)
}

func (j *JoinReconciler) broadcastToObservers(summary string) {
	for _, p := range j.registry.All() {
		if j.perms.Has(p.SteamID(), j.observeFlag) {
			p.SendChat(summary)
		}
	}
}
