// Package csadmin manages player sanctions and admin privileges for
// a game server: bans, voice mutes, chat gags and capability grants,
// persisted in MySQL and enforced on the session hot paths. The host
// server forwards its lifecycle events to a Server and consults the
// returned verdicts.
package csadmin

import (
	"context"
	"fmt"

	"cs-admin/internal/config"
	"cs-admin/internal/crash"
	"cs-admin/internal/gate"
	"cs-admin/internal/handler"
	"cs-admin/internal/logger"
	"cs-admin/internal/platform"
	"cs-admin/internal/scheduler"
	"cs-admin/internal/service"
	"cs-admin/internal/storage"
	"cs-admin/internal/sweeper"
	"cs-admin/internal/webhook"

	"github.com/robfig/cron/v3"
)

// Player is one connected session as the host server sees it.
type Player = platform.Player

// Server is the sanction engine. Create one with New, start it, and
// feed it events from the game thread.
type Server struct {
	cfg *config.Config

	sched       *scheduler.Scheduler
	registry    *platform.Registry
	perms       *platform.Permissions
	notifier    *webhook.Notifier
	sessionGate *gate.SessionGate
	join        *gate.JoinReconciler
	sweep       *sweeper.Sweeper
	dispatcher  *handler.Dispatcher
	maintenance *cron.Cron
}

// New loads configuration, connects storage and wires the engine.
// Logging must not be set up yet; New owns it.
func New(configPath string) (*Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg); err != nil {
		return nil, err
	}
	if err := storage.Initialize(cfg); err != nil {
		return nil, err
	}

	service.Initialize(cfg)
	if err := service.InitRepositories(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		sched:    scheduler.New(),
		registry: platform.NewRegistry(),
		perms:    platform.NewPermissions(),
		notifier: webhook.NewNotifier(cfg.Discord.Webhook),
	}
	s.sessionGate = gate.NewSessionGate(s.sched, s.registry, cfg.Commands.BroadcastAliases(), service.Mutes(), service.Gags())
	s.join = gate.NewJoinReconciler(s.sched, s.registry, s.perms,
		service.Bans(), service.Mutes(), service.Gags(), service.Admins(), cfg.Permissions.ListPlayers)
	s.sweep = sweeper.New(s.sched, s.registry, cfg.Cache.SweepInterval(), service.Mutes(), service.Gags(), func() {
		service.ReconcileExpired(context.Background())
	})
	s.dispatcher = handler.NewDispatcher(cfg, s.registry, s.perms, s.sched, s.notifier)

	return s, nil
}

// Start runs the tick loop, the expiry sweep and daily maintenance.
func (s *Server) Start() error {
	crash.SafeGoroutine("scheduler", s.sched.Run)
	s.sweep.Start()

	s.maintenance = cron.New()
	spec := fmt.Sprintf("@every %s", s.cfg.Cache.MaintenanceInterval())
	_, err := s.maintenance.AddFunc(spec, func() {
		service.ReconcileExpired(context.Background())
		service.InvalidateAllCaches()
	})
	if err != nil {
		return err
	}
	s.maintenance.Start()

	logger.Infof("cs-admin started, sweep every %s, cache lifetime %s",
		s.cfg.Cache.SweepInterval(), s.cfg.Cache.Lifetime())
	return nil
}

// Stop shuts the engine down and closes storage.
func (s *Server) Stop() {
	if s.maintenance != nil {
		s.maintenance.Stop()
	}
	s.sweep.Stop()
	s.sched.Stop()
	storage.Close()
	logger.Info("cs-admin stopped")
}

// OnPlayerAuthorized registers the session and reconciles it with
// persisted state. Call once the steam ID is validated.
func (s *Server) OnPlayerAuthorized(p Player) {
	s.registry.Add(p)
	s.join.HandleAuthorize(p)
}

// OnPlayerDisconnect drops all session state for the player.
func (s *Server) OnPlayerDisconnect(steamID uint64) {
	s.join.HandleDisconnect(steamID)
	s.sessionGate.HandleDisconnect(steamID)
	s.registry.Remove(steamID)
}

// OnChatMessage reports whether the message may be shown. Command
// lines are consumed here regardless of the verdict.
func (s *Server) OnChatMessage(p Player, text string) bool {
	if !s.sessionGate.HandleChat(p, text) {
		return false
	}
	if s.dispatcher.Dispatch(p, text) {
		return false
	}
	return true
}

// OnVoice reports whether the player may transmit voice.
func (s *Server) OnVoice(p Player) bool {
	return s.sessionGate.HandleVoice(p)
}

// OnRoundStart resets per-round throttles.
func (s *Server) OnRoundStart() {
	s.sessionGate.HandleRoundStart()
}

// DispatchConsole runs one command line as the server console.
// Returns false for unknown commands.
func (s *Server) DispatchConsole(line string) bool {
	return s.dispatcher.Dispatch(nil, line)
}
