package service

import (
	"context"
	"errors"

	"cs-admin/internal/logger"
	"cs-admin/internal/models"
	"cs-admin/internal/storage"
)

// Ban records a new ban. Duration is minutes, zero for permanent.
func Ban(ctx context.Context, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error) {
	return createSanction(ctx, banCache, steamID, durationMinutes, reason)
}

// Unban revokes the subject's active ban. False means none existed.
func Unban(ctx context.Context, steamID uint64, reason string) (bool, error) {
	return revokeSanction(ctx, banCache, steamID, reason)
}

// Mute records a new voice mute.
func Mute(ctx context.Context, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error) {
	return createSanction(ctx, muteCache, steamID, durationMinutes, reason)
}

// Unmute revokes the subject's active mute.
func Unmute(ctx context.Context, steamID uint64, reason string) (bool, error) {
	return revokeSanction(ctx, muteCache, steamID, reason)
}

// Gag records a new text-chat gag.
func Gag(ctx context.Context, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error) {
	return createSanction(ctx, gagCache, steamID, durationMinutes, reason)
}

// Ungag revokes the subject's active gag.
func Ungag(ctx context.Context, steamID uint64, reason string) (bool, error) {
	return revokeSanction(ctx, gagCache, steamID, reason)
}

func createSanction(ctx context.Context, cache *SanctionCache, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error) {
	record, err := cache.store.Create(ctx, steamID, durationMinutes, reason)
	if err != nil {
		if !errors.Is(err, storage.ErrAlreadySanctioned) && !errors.Is(err, storage.ErrInvalidDuration) {
			logger.Errorf("Failed to create %s for %d: %v", cache.Kind(), steamID, err)
		}
		return nil, err
	}
	cache.Invalidate(steamID)
	logger.Infof("Recorded %s for %d: %q (%d minutes)", cache.Kind(), steamID, reason, durationMinutes)
	return record, nil
}

func revokeSanction(ctx context.Context, cache *SanctionCache, steamID uint64, reason string) (bool, error) {
	revoked, err := cache.store.Revoke(ctx, steamID, reason)
	if err != nil {
		logger.Errorf("Failed to revoke %s for %d: %v", cache.Kind(), steamID, err)
		return false, err
	}
	if revoked {
		cache.Invalidate(steamID)
		logger.Infof("Revoked %s for %d: %q", cache.Kind(), steamID, reason)
	}
	return revoked, nil
}

// ActiveBan returns the subject's active ban, nil on none or on a
// degraded store.
func ActiveBan(ctx context.Context, steamID uint64) *models.SanctionRecord {
	return banCache.Get(ctx, steamID)
}

// ActiveMute returns the subject's active mute.
func ActiveMute(ctx context.Context, steamID uint64) *models.SanctionRecord {
	return muteCache.Get(ctx, steamID)
}

// ActiveGag returns the subject's active gag.
func ActiveGag(ctx context.Context, steamID uint64) *models.SanctionRecord {
	return gagCache.Get(ctx, steamID)
}

// TotalBans returns the subject's historical ban count across all
// statuses, zero when the store is unreachable.
func TotalBans(ctx context.Context, steamID uint64) int64 {
	return totalCount(ctx, banCache, steamID)
}

// TotalMutes returns the subject's historical mute count.
func TotalMutes(ctx context.Context, steamID uint64) int64 {
	return totalCount(ctx, muteCache, steamID)
}

// TotalGags returns the subject's historical gag count.
func TotalGags(ctx context.Context, steamID uint64) int64 {
	return totalCount(ctx, gagCache, steamID)
}

func totalCount(ctx context.Context, cache *SanctionCache, steamID uint64) int64 {
	return cache.TotalCount(ctx, steamID)
}

// ReconcileExpired flips every overdue record of every kind to
// expired and deletes expired admin grants. Caches are flushed when
// anything changed, since the flipped rows could belong to any
// subject. Returns the number of sanction rows flipped.
func ReconcileExpired(ctx context.Context) int64 {
	var total int64
	for _, cache := range []*SanctionCache{banCache, muteCache, gagCache} {
		n, err := cache.store.ReconcileExpired(ctx)
		if err != nil {
			logger.Errorf("Failed to reconcile expired %ss: %v", cache.Kind(), err)
			continue
		}
		total += n
	}

	removed, err := adminCache.store.CleanupExpired(ctx)
	if err != nil {
		logger.Errorf("Failed to clean up expired admins: %v", err)
	}

	if total > 0 || removed > 0 {
		logger.Infof("Reconciled %d expired sanctions, removed %d expired admins", total, removed)
		InvalidateAllCaches()
	}
	return total
}
