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

// SanctionStore is the persistence surface a cache refreshes from.
// *storage.SanctionRepository implements it.
type SanctionStore interface {
	Kind() models.SanctionKind
	Create(ctx context.Context, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error)
	Revoke(ctx context.Context, steamID uint64, reason string) (bool, error)
	GetActive(ctx context.Context, steamID uint64) (*models.SanctionRecord, error)
	GetTotalCount(ctx context.Context, steamID uint64) (int64, error)
	ReconcileExpired(ctx context.Context) (int64, error)
}

// SanctionCache holds the records of one kind consulted on every
// chat or voice event. Freshness is governed by a single cohort-wide
// timestamp rather than per-entry TTLs: one store round-trip renews
// the whole cohort for the lifetime, which caps refresh traffic at
// the cost of coarser invalidation.
type SanctionCache struct {
	store    SanctionStore
	lifetime time.Duration

	mu          sync.RWMutex
	entries     map[uint64]*models.SanctionRecord
	lastRefresh time.Time

	group singleflight.Group
	now   func() time.Time
}

// NewSanctionCache creates an empty cache over store.
func NewSanctionCache(store SanctionStore, lifetime time.Duration) *SanctionCache {
	return &SanctionCache{
		store:    store,
		lifetime: lifetime,
		entries:  make(map[uint64]*models.SanctionRecord),
		now:      time.Now,
	}
}

// Kind returns the sanction kind this cache holds.
func (c *SanctionCache) Kind() models.SanctionKind {
	return c.store.Kind()
}

// Get returns the subject's active record, consulting the store when
// the cohort is stale. Store faults degrade to nil with a log line:
// an outage pauses enforcement instead of propagating. Concurrent
// refreshes for one subject are collapsed to a single query.
func (c *SanctionCache) Get(ctx context.Context, steamID uint64) *models.SanctionRecord {
	c.mu.RLock()
	entry, ok := c.entries[steamID]
	fresh := c.now().Sub(c.lastRefresh) < c.lifetime
	c.mu.RUnlock()

	if ok && fresh {
		if !entry.IsActive() {
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
		logger.Warningf("Error refreshing %s cache for %d: %v", c.Kind(), steamID, err)
		return nil
	}

	record, _ := v.(*models.SanctionRecord)
	return record
}

// GetCached is the hot-path read: no I/O, no store fallback. It
// returns the cached entry while its status is still active, even
// when the expiry time has already passed; callers decide whether a
// time-expired entry means "block" (gate) or "flip and notify"
// (sweeper).
func (c *SanctionCache) GetCached(steamID uint64) *models.SanctionRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry := c.entries[steamID]
	if entry != nil && entry.Status == models.StatusActive {
		return entry
	}
	return nil
}

// ReconcileExpired flips this kind's overdue rows to expired,
// flushing the cache when anything changed. Zero on a degraded store.
func (c *SanctionCache) ReconcileExpired(ctx context.Context) int64 {
	n, err := c.store.ReconcileExpired(ctx)
	if err != nil {
		logger.Errorf("Failed to reconcile expired %ss: %v", c.Kind(), err)
		return 0
	}
	if n > 0 {
		c.InvalidateAll()
	}
	return n
}

// TotalCount returns the subject's historical record count across
// all statuses, zero on a degraded store.
func (c *SanctionCache) TotalCount(ctx context.Context, steamID uint64) int64 {
	count, err := c.store.GetTotalCount(ctx, steamID)
	if err != nil {
		logger.Warningf("Failed to count %s history for %d: %v", c.Kind(), steamID, err)
		return 0
	}
	return count
}

// Invalidate evicts one subject after a mutation.
func (c *SanctionCache) Invalidate(steamID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, steamID)
}

// InvalidateAll evicts every entry, typically after bulk
// reconciliation touched an unknown set of subjects.
func (c *SanctionCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*models.SanctionRecord)
	c.lastRefresh = time.Time{}
}
