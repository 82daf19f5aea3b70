package service

import (
	"context"

	"cs-admin/internal/logger"
	"cs-admin/internal/models"
)

// UpsertAdmin saves or replaces the grant for steamID. Zero
// durationDays means the grant never expires.
func UpsertAdmin(ctx context.Context, steamID uint64, name, flags string, immunity, durationDays int) (*models.AdminRecord, error) {
	record, err := adminCache.store.AddOrUpdate(ctx, steamID, name, flags, immunity, durationDays)
	if err != nil {
		logger.Errorf("Failed to save admin %d: %v", steamID, err)
		return nil, err
	}
	adminCache.Invalidate(steamID)
	logger.Infof("Saved admin %s (%d) flags=%s immunity=%d", name, steamID, flags, immunity)
	return record, nil
}

// RemoveAdmin deletes the grant. False means none existed.
func RemoveAdmin(ctx context.Context, steamID uint64) (bool, error) {
	removed, err := adminCache.store.Remove(ctx, steamID)
	if err != nil {
		logger.Errorf("Failed to remove admin %d: %v", steamID, err)
		return false, err
	}
	if removed {
		adminCache.Invalidate(steamID)
		logger.Infof("Removed admin %d", steamID)
	}
	return removed, nil
}

// ActiveAdmin returns the subject's grant, nil on none or on a
// degraded store.
func ActiveAdmin(ctx context.Context, steamID uint64) *models.AdminRecord {
	return adminCache.Get(ctx, steamID)
}

// AdminList returns all unexpired grants ordered by immunity.
func AdminList(ctx context.Context) []models.AdminRecord {
	records, err := adminCache.store.ListActive(ctx)
	if err != nil {
		logger.Warningf("Failed to list admins: %v", err)
		return nil
	}
	return records
}
