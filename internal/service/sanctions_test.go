package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cs-admin/internal/models"
)

// installFakes swaps the package singletons for in-memory stores and
// restores them when the test ends.
func installFakes(t *testing.T) (ban, mute, gag *fakeSanctionStore, admin *fakeAdminStore) {
	t.Helper()
	prevBan, prevMute, prevGag, prevAdmin := banCache, muteCache, gagCache, adminCache
	t.Cleanup(func() {
		banCache, muteCache, gagCache, adminCache = prevBan, prevMute, prevGag, prevAdmin
	})

	ban = newFakeSanctionStore(models.KindBan)
	mute = newFakeSanctionStore(models.KindMute)
	gag = newFakeSanctionStore(models.KindGag)
	admin = newFakeAdminStore()

	lifetime := 5 * time.Minute
	banCache = NewSanctionCache(ban, lifetime)
	muteCache = NewSanctionCache(mute, lifetime)
	gagCache = NewSanctionCache(gag, lifetime)
	adminCache = NewAdminCache(admin, lifetime)
	return ban, mute, gag, admin
}

func TestBanCreatesAndInvalidates(t *testing.T) {
	ban, _, _, _ := installFakes(t)
	ctx := context.Background()

	record, err := Ban(ctx, 1, 30, "Hacking")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), record.SteamID)
	assert.NotNil(t, ban.records[1])

	// Next read comes from the store, not a stale cache slot.
	assert.NotNil(t, ActiveBan(ctx, 1))
}

func TestBanPropagatesStoreError(t *testing.T) {
	ban, _, _, _ := installFakes(t)
	ban.err = errors.New("down")

	_, err := Ban(context.Background(), 1, 30, "Hacking")
	assert.Error(t, err)
}

func TestUnbanReportsMissingRecord(t *testing.T) {
	installFakes(t)
	ctx := context.Background()

	revoked, err := Unban(ctx, 1, "appealed")
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = Ban(ctx, 1, 0, "Hacking")
	require.NoError(t, err)

	revoked, err = Unban(ctx, 1, "appealed")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMuteAndGagUseTheirOwnStores(t *testing.T) {
	_, mute, gag, _ := installFakes(t)
	ctx := context.Background()

	_, err := Mute(ctx, 1, 10, "Spamming")
	require.NoError(t, err)
	_, err = Gag(ctx, 2, 0, "Obscene language")
	require.NoError(t, err)

	assert.NotNil(t, mute.records[1])
	assert.Nil(t, mute.records[2])
	assert.NotNil(t, gag.records[2])

	assert.NotNil(t, ActiveMute(ctx, 1))
	assert.Nil(t, ActiveGag(ctx, 1))
	assert.NotNil(t, ActiveGag(ctx, 2))
}

func TestReconcileExpiredFlushesCachesOnChange(t *testing.T) {
	ban, mute, _, _ := installFakes(t)
	ctx := context.Background()

	// Warm a cache entry, then have the sweep flip rows.
	mute.records[1] = activeRecord(1, time.Hour)
	require.NotNil(t, ActiveMute(ctx, 1))
	require.NotNil(t, Mutes().GetCached(1))

	ban.reconciled = 2
	assert.Equal(t, int64(2), ReconcileExpired(ctx))
	assert.Nil(t, Mutes().GetCached(1))
}

func TestReconcileExpiredNoChangeKeepsCaches(t *testing.T) {
	_, mute, _, _ := installFakes(t)
	ctx := context.Background()

	mute.records[1] = activeRecord(1, time.Hour)
	require.NotNil(t, ActiveMute(ctx, 1))

	assert.Equal(t, int64(0), ReconcileExpired(ctx))
	assert.NotNil(t, Mutes().GetCached(1))
}

func TestUpsertAndRemoveAdmin(t *testing.T) {
	_, _, _, admin := installFakes(t)
	ctx := context.Background()

	record, err := UpsertAdmin(ctx, 7, "alice", "admin.ban", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Name)
	assert.NotNil(t, admin.records[7])

	assert.NotNil(t, ActiveAdmin(ctx, 7))

	removed, err := RemoveAdmin(ctx, 7)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, Admins().GetCached(7))

	removed, err = RemoveAdmin(ctx, 7)
	require.NoError(t, err)
	assert.False(t, removed)
}
