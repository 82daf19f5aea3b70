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

type fakeAdminStore struct {
	records map[uint64]*models.AdminRecord
	err     error
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{records: make(map[uint64]*models.AdminRecord)}
}

func (f *fakeAdminStore) AddOrUpdate(ctx context.Context, steamID uint64, name, flags string, immunity, durationDays int) (*models.AdminRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record := &models.AdminRecord{SteamID: steamID, Name: name, Flags: flags, Immunity: immunity}
	f.records[steamID] = record
	return record, nil
}

func (f *fakeAdminStore) Remove(ctx context.Context, steamID uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.records[steamID]; !ok {
		return false, nil
	}
	delete(f.records, steamID)
	return true, nil
}

func (f *fakeAdminStore) GetActive(ctx context.Context, steamID uint64) (*models.AdminRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[steamID], nil
}

func (f *fakeAdminStore) ListActive(ctx context.Context) ([]models.AdminRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.AdminRecord
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAdminStore) CleanupExpired(ctx context.Context) (int64, error) {
	return 0, f.err
}

func TestAdminGetCachesGrant(t *testing.T) {
	store := newFakeAdminStore()
	store.records[7] = &models.AdminRecord{SteamID: 7, Name: "alice", Flags: "admin.root"}
	cache := NewAdminCache(store, 5*time.Minute)

	got := cache.Get(context.Background(), 7)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Name)
	assert.NotNil(t, cache.GetCached(7))
}

func TestAdminGetEvictsExpiredGrant(t *testing.T) {
	store := newFakeAdminStore()
	past := time.Now().UTC().Add(-time.Hour)
	store.records[7] = &models.AdminRecord{SteamID: 7, ExpiresAt: &past}
	cache := NewAdminCache(store, 5*time.Minute)

	// First read caches the record, the fresh-path read notices the
	// expiry and evicts.
	cache.Get(context.Background(), 7)
	store.records[7] = nil
	assert.Nil(t, cache.Get(context.Background(), 7))
}

func TestAdminGetFailsOpen(t *testing.T) {
	store := newFakeAdminStore()
	store.err = errors.New("down")
	cache := NewAdminCache(store, 5*time.Minute)
	assert.Nil(t, cache.Get(context.Background(), 7))
}

func TestAdminInvalidate(t *testing.T) {
	store := newFakeAdminStore()
	store.records[7] = &models.AdminRecord{SteamID: 7}
	cache := NewAdminCache(store, 5*time.Minute)

	cache.Get(context.Background(), 7)
	cache.Invalidate(7)
	assert.Nil(t, cache.GetCached(7))
}
