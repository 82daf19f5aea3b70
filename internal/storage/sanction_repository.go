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

var (
	// ErrAlreadySanctioned is returned by Create when the subject
	// already has an active record of the same kind.
	ErrAlreadySanctioned = errors.New("subject already has an active record")

	// ErrInvalidDuration is returned for negative durations.
	ErrInvalidDuration = errors.New("duration must be zero or positive minutes")
)

// SanctionRepository handles database operations for one sanction
// kind (bans, mutes or gags). All three kinds share the record shape;
// the kind picks the table.
type SanctionRepository struct {
	db   *gorm.DB
	kind models.SanctionKind
}

// NewSanctionRepository creates a repository bound to one kind.
func NewSanctionRepository(db *gorm.DB, kind models.SanctionKind) *SanctionRepository {
	return &SanctionRepository{db: db, kind: kind}
}

// Kind returns the sanction kind this repository stores.
func (r *SanctionRepository) Kind() models.SanctionKind {
	return r.kind
}

func (r *SanctionRepository) table(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.kind.TableName())
}

// MigrateTable ensures the table for this kind exists.
func (r *SanctionRepository) MigrateTable() error {
	return r.db.Table(r.kind.TableName()).AutoMigrate(&models.SanctionRecord{})
}

// Create inserts a new active record attributed to the admin carried
// on ctx. Zero duration means permanent. At most one active record
// may exist per subject and kind; the check and insert run in one
// transaction over a locked read, so two admins racing on the same
// subject cannot both succeed. A stale active row whose expiry has
// already passed is flipped to expired in the same transaction
// instead of blocking the new record.
func (r *SanctionRepository) Create(ctx context.Context, steamID uint64, durationMinutes int, reason string) (*models.SanctionRecord, error) {
	if durationMinutes < 0 {
		return nil, ErrInvalidDuration
	}

	act := actor.FromContext(ctx)
	now := time.Now().UTC()

	var expiresAt *time.Time
	if durationMinutes > 0 {
		t := now.Add(time.Duration(durationMinutes) * time.Minute)
		expiresAt = &t
	}

	record := &models.SanctionRecord{
		SteamID:      steamID,
		AdminName:    act.Name,
		AdminSteamID: act.SteamID,
		Reason:       reason,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
		Status:       models.StatusActive,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.SanctionRecord
		err := tx.Table(r.kind.TableName()).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("steam_id = ? AND status = ?", steamID, models.StatusActive).
			Find(&existing).Error
		if err != nil {
			return err
		}

		for i := range existing {
			if !existing[i].IsExpired() {
				return ErrAlreadySanctioned
			}
		}
		if len(existing) > 0 {
			// Only time-expired leftovers remain; reconcile them here
			// so the one-active-per-subject rule stays true.
			err = tx.Table(r.kind.TableName()).
				Where("steam_id = ? AND status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
					steamID, models.StatusActive, now).
				Update("status", models.StatusExpired).Error
			if err != nil {
				return err
			}
		}

		return tx.Table(r.kind.TableName()).Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Revoke flips the subject's active record to revoked, stamping the
// revoking admin from ctx. Returns false when no active record
// exists. Revoked is terminal.
func (r *SanctionRepository) Revoke(ctx context.Context, steamID uint64, reason string) (bool, error) {
	act := actor.FromContext(ctx)
	now := time.Now().UTC()

	result := r.table(ctx).
		Where("steam_id = ? AND status = ?", steamID, models.StatusActive).
		Updates(map[string]interface{}{
			"status":                models.StatusRevoked,
			"revoke_admin_name":     act.Name,
			"revoke_admin_steam_id": act.SteamID,
			"revoke_reason":         reason,
			"revoke_date":           now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetActive returns the subject's active, unexpired record, or nil.
func (r *SanctionRepository) GetActive(ctx context.Context, steamID uint64) (*models.SanctionRecord, error) {
	var record models.SanctionRecord
	err := r.table(ctx).
		Where("steam_id = ? AND status = ?", steamID, models.StatusActive).
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

// GetTotalCount returns the subject's historical record count across
// all statuses.
func (r *SanctionRepository) GetTotalCount(ctx context.Context, steamID uint64) (int64, error) {
	var count int64
	err := r.table(ctx).Where("steam_id = ?", steamID).Count(&count).Error
	return count, err
}

// ReconcileExpired bulk-transitions active records whose expiry has
// passed to expired, returning how many were flipped.
func (r *SanctionRepository) ReconcileExpired(ctx context.Context) (int64, error) {
	result := r.table(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
			models.StatusActive, time.Now().UTC()).
		Update("status", models.StatusExpired)
	return result.RowsAffected, result.Error
}
