package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cs-admin/internal/models"
	"cs-admin/internal/platform"
	"cs-admin/internal/scheduler"
	"cs-admin/internal/service"
)

type fakePlayer struct {
	steamID uint64
	name    string
	muted   bool
	chat    []string
	kicked  string
}

func (f *fakePlayer) SteamID() uint64         { return f.steamID }
func (f *fakePlayer) Name() string            { return f.name }
func (f *fakePlayer) Slot() int               { return 0 }
func (f *fakePlayer) VoiceMuted() bool        { return f.muted }
func (f *fakePlayer) SetVoiceMuted(m bool)    { f.muted = m }
func (f *fakePlayer) SendChat(message string) { f.chat = append(f.chat, message) }
func (f *fakePlayer) Kick(reason string)      { f.kicked = reason }

type fakeStore struct {
	kind    models.SanctionKind
	records map[uint64]*models.SanctionRecord
}

func (f *fakeStore) Kind() models.SanctionKind { return f.kind }
func (f *fakeStore) Create(ctx context.Context, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error) {
	return nil, nil
}
func (f *fakeStore) Revoke(ctx context.Context, steamID uint64, reason string) (bool, error) {
	return false, nil
}
func (f *fakeStore) GetActive(ctx context.Context, steamID uint64) (*models.SanctionRecord, error) {
	return f.records[steamID], nil
}
func (f *fakeStore) GetTotalCount(ctx context.Context, steamID uint64) (int64, error) {
	return 0, nil
}
func (f *fakeStore) ReconcileExpired(ctx context.Context) (int64, error) { return 0, nil }

func cacheWith(t *testing.T, kind models.SanctionKind, records map[uint64]*models.SanctionRecord) *service.SanctionCache {
	t.Helper()
	cache := service.NewSanctionCache(&fakeStore{kind: kind, records: records}, 5*time.Minute)
	for id := range records {
		require.NotNil(t, cache.Get(context.Background(), id))
	}
	return cache
}

func expiredActive(steamID uint64) *models.SanctionRecord {
	past := time.Now().UTC().Add(-time.Minute)
	return &models.SanctionRecord{SteamID: steamID, Status: models.StatusActive, ExpiresAt: &past}
}

func liveActive(steamID uint64) *models.SanctionRecord {
	future := time.Now().UTC().Add(time.Hour)
	return &models.SanctionRecord{SteamID: steamID, Status: models.StatusActive, ExpiresAt: &future}
}

func TestSweepReleasesExpiredMute(t *testing.T) {
	p := &fakePlayer{steamID: 1, name: "alice", muted: true}
	registry := platform.NewRegistry()
	registry.Add(p)

	mutes := cacheWith(t, models.KindMute, map[uint64]*models.SanctionRecord{1: expiredActive(1)})
	gags := cacheWith(t, models.KindGag, nil)

	reconciled := make(chan struct{})
	s := New(scheduler.New(), registry, time.Second, mutes, gags, func() { close(reconciled) })
	s.Sweep()

	assert.False(t, p.muted)
	assert.Contains(t, p.chat, models.Message("mute_expired"))
	assert.Nil(t, mutes.GetCached(1))

	select {
	case <-reconciled:
	case <-time.After(time.Second):
		t.Fatal("reconcile never ran")
	}
}

func TestSweepReleasesExpiredGagWithoutVoiceFlag(t *testing.T) {
	p := &fakePlayer{steamID: 1, name: "alice", muted: true}
	registry := platform.NewRegistry()
	registry.Add(p)

	mutes := cacheWith(t, models.KindMute, nil)
	gags := cacheWith(t, models.KindGag, map[uint64]*models.SanctionRecord{1: expiredActive(1)})

	s := New(scheduler.New(), registry, time.Second, mutes, gags, func() {})
	s.Sweep()

	// Gag expiry never touches the voice flag.
	assert.True(t, p.muted)
	assert.Contains(t, p.chat, models.Message("gag_expired"))
	assert.Nil(t, gags.GetCached(1))
}

func TestSweepLeavesUnexpiredRecordsAlone(t *testing.T) {
	p := &fakePlayer{steamID: 1, name: "alice", muted: true}
	registry := platform.NewRegistry()
	registry.Add(p)

	mutes := cacheWith(t, models.KindMute, map[uint64]*models.SanctionRecord{1: liveActive(1)})
	gags := cacheWith(t, models.KindGag, nil)

	s := New(scheduler.New(), registry, time.Second, mutes, gags, func() {})
	s.Sweep()

	assert.True(t, p.muted)
	assert.Empty(t, p.chat)
	assert.NotNil(t, mutes.GetCached(1))
}

func TestSweepIgnoresPlayersWithoutCachedRecords(t *testing.T) {
	p := &fakePlayer{steamID: 2, name: "bob"}
	registry := platform.NewRegistry()
	registry.Add(p)

	mutes := cacheWith(t, models.KindMute, nil)
	gags := cacheWith(t, models.KindGag, nil)

	s := New(scheduler.New(), registry, time.Second, mutes, gags, func() {})
	s.Sweep()

	assert.Empty(t, p.chat)
}
