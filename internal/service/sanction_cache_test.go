package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cs-admin/internal/models"
)

type fakeSanctionStore struct {
	kind       models.SanctionKind
	records    map[uint64]*models.SanctionRecord
	err        error
	reconciled int64

	getCalls int32
}

func newFakeSanctionStore(kind models.SanctionKind) *fakeSanctionStore {
	return &fakeSanctionStore{kind: kind, records: make(map[uint64]*models.SanctionRecord)}
}

func (f *fakeSanctionStore) Kind() models.SanctionKind { return f.kind }

func (f *fakeSanctionStore) Create(ctx context.Context, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record := &models.SanctionRecord{SteamID: steamID, Reason: reason, Status: models.StatusActive}
	f.records[steamID] = record
	return record, nil
}

func (f *fakeSanctionStore) Revoke(ctx context.Context, steamID uint64, reason string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.records[steamID]; !ok {
		return false, nil
	}
	delete(f.records, steamID)
	return true, nil
}

func (f *fakeSanctionStore) GetActive(ctx context.Context, steamID uint64) (*models.SanctionRecord, error) {
	atomic.AddInt32(&f.getCalls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.records[steamID], nil
}

func (f *fakeSanctionStore) GetTotalCount(ctx context.Context, steamID uint64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.records[steamID]; ok {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeSanctionStore) ReconcileExpired(ctx context.Context) (int64, error) {
	return f.reconciled, f.err
}

func activeRecord(steamID uint64, d time.Duration) *models.SanctionRecord {
	r := &models.SanctionRecord{SteamID: steamID, Status: models.StatusActive}
	if d != 0 {
		t := time.Now().UTC().Add(d)
		r.ExpiresAt = &t
	}
	return r
}

func TestGetFetchesOnMissAndCaches(t *testing.T) {
	store := newFakeSanctionStore(models.KindGag)
	store.records[1] = activeRecord(1, time.Hour)
	cache := NewSanctionCache(store, 5*time.Minute)

	got := cache.Get(context.Background(), 1)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1), got.SteamID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.getCalls))

	// Fresh cohort, second read never touches the store.
	cache.Get(context.Background(), 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.getCalls))
}

func TestGetRefreshesWhenCohortStale(t *testing.T) {
	store := newFakeSanctionStore(models.KindGag)
	store.records[1] = activeRecord(1, time.Hour)
	cache := NewSanctionCache(store, 5*time.Minute)

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.Get(context.Background(), 1)
	require.Equal(t, int32(1), atomic.LoadInt32(&store.getCalls))

	// Advance past the cohort lifetime; the next read goes back to
	// the store even though the entry is still present.
	now = now.Add(6 * time.Minute)
	cache.Get(context.Background(), 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&store.getCalls))
}

func TestGetStoreErrorFailsOpen(t *testing.T) {
	store := newFakeSanctionStore(models.KindMute)
	store.err = errors.New("connection refused")
	cache := NewSanctionCache(store, 5*time.Minute)

	assert.Nil(t, cache.Get(context.Background(), 1))
}

func TestGetMissIsNotCachedAsFresh(t *testing.T) {
	store := newFakeSanctionStore(models.KindBan)
	cache := NewSanctionCache(store, 5*time.Minute)

	assert.Nil(t, cache.Get(context.Background(), 1))

	// A nil result does not stamp cohort freshness, so a record
	// created right after is visible on the next read.
	store.records[1] = activeRecord(1, 0)
	assert.NotNil(t, cache.Get(context.Background(), 1))
}

func TestGetCachedReturnsTimeExpiredActiveEntry(t *testing.T) {
	store := newFakeSanctionStore(models.KindMute)
	store.records[1] = activeRecord(1, time.Hour)
	cache := NewSanctionCache(store, 5*time.Minute)
	cache.Get(context.Background(), 1)

	// Let the entry expire in place. GetCached still surfaces it so
	// the sweep can flip the flag and notify; only a status change or
	// eviction removes it.
	past := time.Now().UTC().Add(-time.Minute)
	cache.GetCached(1).ExpiresAt = &past

	entry := cache.GetCached(1)
	require.NotNil(t, entry)
	assert.True(t, entry.IsExpired())

	entry.Status = models.StatusRevoked
	assert.Nil(t, cache.GetCached(1))
}

func TestGetEvictsInactiveEntryWhileFresh(t *testing.T) {
	store := newFakeSanctionStore(models.KindGag)
	store.records[1] = activeRecord(1, time.Hour)
	cache := NewSanctionCache(store, 5*time.Minute)
	cache.Get(context.Background(), 1)

	past := time.Now().UTC().Add(-time.Minute)
	cache.GetCached(1).ExpiresAt = &past
	delete(store.records, 1)

	assert.Nil(t, cache.Get(context.Background(), 1))
	assert.Nil(t, cache.GetCached(1))
}

func TestInvalidateAllResetsFreshness(t *testing.T) {
	store := newFakeSanctionStore(models.KindBan)
	store.records[1] = activeRecord(1, time.Hour)
	cache := NewSanctionCache(store, 5*time.Minute)

	cache.Get(context.Background(), 1)
	cache.InvalidateAll()
	assert.Nil(t, cache.GetCached(1))

	cache.Get(context.Background(), 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&store.getCalls))
}

func TestReconcileExpiredFlushesOnChange(t *testing.T) {
	store := newFakeSanctionStore(models.KindBan)
	store.records[1] = activeRecord(1, time.Hour)
	cache := NewSanctionCache(store, 5*time.Minute)
	cache.Get(context.Background(), 1)

	// Nothing overdue: the cache keeps its entries.
	assert.Equal(t, int64(0), cache.ReconcileExpired(context.Background()))
	assert.NotNil(t, cache.GetCached(1))

	// Rows flipped: stale entries must not outlive the update.
	store.reconciled = 2
	assert.Equal(t, int64(2), cache.ReconcileExpired(context.Background()))
	assert.Nil(t, cache.GetCached(1))

	store.err = errors.New("down")
	assert.Equal(t, int64(0), cache.ReconcileExpired(context.Background()))
}

func TestTotalCountFailsOpenToZero(t *testing.T) {
	store := newFakeSanctionStore(models.KindBan)
	store.records[1] = activeRecord(1, 0)
	cache := NewSanctionCache(store, 5*time.Minute)

	assert.Equal(t, int64(1), cache.TotalCount(context.Background(), 1))

	store.err = errors.New("down")
	assert.Equal(t, int64(0), cache.TotalCount(context.Background(), 1))
}
