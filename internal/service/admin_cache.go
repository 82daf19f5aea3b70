package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"cs-admin/internal/logger"
	"cs-admin/internal/models"

	"golang.org/x/sync/singleflight"
)

// AdminStore is the persistence surface behind the admin cache.
// *storage.AdminRepository implements it.
type AdminStore interface {
	AddOrUpdate(ctx context.Context, steamID uint64, name, flags string, immunity, durationDays int) (*models.AdminRecord, error)
	Remove(ctx context.Context, steamID uint64) (bool, error)
	GetActive(ctx context.Context, steamID uint64) (*models.AdminRecord, error)
	ListActive(ctx context.Context) ([]models.AdminRecord, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

// AdminCache mirrors SanctionCache for privilege grants: cohort-wide
// freshness timestamp, mutex-guarded map, singleflight refills.
type AdminCache struct {
	store    AdminStore
	lifetime time.Duration

	mu          sync.RWMutex
	entries     map[uint64]*models.AdminRecord
	lastRefresh time.Time

	group singleflight.Group
	now   func() time.Time
}

// NewAdminCache creates an empty cache over store.
func NewAdminCache(store AdminStore, lifetime time.Duration) *AdminCache {
	return &AdminCache{
		store:    store,
		lifetime: lifetime,
		entries:  make(map[uint64]*models.AdminRecord),
		now:      time.Now,
	}
}

// Get returns the subject's grant, refreshing from the store when the
// cohort is stale. Store faults degrade to nil with a log line.
func (c *AdminCache) Get(ctx context.Context, steamID uint64) *models.AdminRecord {
	c.mu.RLock()
	entry, ok := c.entries[steamID]
	fresh := c.now().Sub(c.lastRefresh) < c.lifetime
	c.mu.RUnlock()

	if ok && fresh {
		if entry.IsExpired() {
			c.Invalidate(steamID)
			return nil
		}
		return entry
	}

	v, err, _ := c.group.Do(strconv.FormatUint(steamID, 10), func() (interface{}, error) {
		record, err := c.store.GetActive(ctx, steamID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if record != nil {
			c.entries[steamID] = record
			c.lastRefresh = c.now()
		} else {
			delete(c.entries, steamID)
		}
		c.mu.Unlock()
		return record, nil
	})
	if err != nil {
		logger.Warningf("Error refreshing admin cache for %d: %v", steamID, err)
		return nil
	}

	record, _ := v.(*models.AdminRecord)
	return record
}

// GetCached is the I/O-free read of the current map.
func (c *AdminCache) GetCached(steamID uint64) *models.AdminRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[steamID]
}

// Invalidate evicts one subject after a mutation.
func (c *AdminCache) Invalidate(steamID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, steamID)
}

// InvalidateAll evicts every entry.
func (c *AdminCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*models.AdminRecord)
	c.lastRefresh = time.Time{}
}
