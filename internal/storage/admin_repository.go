package storage

import (
	"context"
	"errors"
	"time"

	"cs-admin/internal/actor"
	"cs-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminRepository handles database operations for AdminRecord. Admin
// grants are keyed uniquely per steam ID and are hard-deleted on
// removal or expiry, unlike sanctions which keep their audit trail.
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// MigrateTable ensures the admins table exists.
func (r *AdminRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.AdminRecord{})
}

// AddOrUpdate upserts the grant for steamID. Zero durationDays means
// the grant never expires. The granting admin comes from ctx.
func (r *AdminRepository) AddOrUpdate(ctx context.Context, steamID uint64, name, flags string, immunity, durationDays int) (*models.AdminRecord, error) {
	if durationDays < 0 {
		return nil, ErrInvalidDuration
	}

	act := actor.FromContext(ctx)
	now := time.Now().UTC()

	var expiresAt *time.Time
	if durationDays > 0 {
		t := now.Add(time.Duration(durationDays) * 24 * time.Hour)
		expiresAt = &t
	}

	record := &models.AdminRecord{
		SteamID:          steamID,
		Name:             name,
		Flags:            flags,
		Immunity:         immunity,
		CreatedAt:        now,
		ExpiresAt:        expiresAt,
		GrantedBy:        act.Name,
		GrantedBySteamID: act.SteamID,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "steam_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "flags", "immunity", "expires_at", "granted_by", "granted_by_steam_id",
			}),
		}).
		Create(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Remove hard-deletes the grant. Returns false when none existed.
func (r *AdminRepository) Remove(ctx context.Context, steamID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("steam_id = ?", steamID).
		Delete(&models.AdminRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetActive returns the subject's unexpired grant, or nil.
func (r *AdminRepository) GetActive(ctx context.Context, steamID uint64) (*models.AdminRecord, error) {
	var record models.AdminRecord
	err := r.db.WithContext(ctx).
		Where("steam_id = ?", steamID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListActive returns all unexpired grants, highest immunity first,
// names breaking ties.
func (r *AdminRepository) ListActive(ctx context.Context) ([]models.AdminRecord, error) {
	var records []models.AdminRecord
	err := r.db.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Order("immunity DESC, name ASC").
		Find(&records).Error
	return records, err
}

// CleanupExpired hard-deletes grants whose expiry has passed.
func (r *AdminRepository) CleanupExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now().UTC()).
		Delete(&models.AdminRecord{})
	return result.RowsAffected, result.Error
}
