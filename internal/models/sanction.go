package models

import (
	"time"
)

// SanctionKind selects which punishment table a record belongs to.
type SanctionKind string

const (
	KindBan  SanctionKind = "ban"
	KindMute SanctionKind = "mute"
	KindGag  SanctionKind = "gag"
)

// TableName returns the storage table backing this kind.
func (k SanctionKind) TableName() string {
	switch k {
	case KindBan:
		return "bans"
	case KindMute:
		return "mutes"
	default:
		return "gags"
	}
}

// SanctionStatus is the lifecycle state of a sanction record.
// Transitions are one-way: active -> expired (time driven) or
// active -> revoked (admin driven).
type SanctionStatus string

const (
	StatusActive  SanctionStatus = "active"
	StatusExpired SanctionStatus = "expired"
	StatusRevoked SanctionStatus = "revoked"
)

// SanctionRecord is a single ban, mute or gag entry. Bans, mutes and
// gags share this shape; the repository decides the table.
type SanctionRecord struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement"`
	SteamID            uint64     `gorm:"index:idx_steam_status,priority:1;not null"`
	AdminName          string     `gorm:"size:64;not null"`
	AdminSteamID       uint64     `gorm:"not null"`
	Reason             string     `gorm:"type:text"`
	CreatedAt          time.Time
	ExpiresAt          *time.Time `gorm:"index:idx_expires_status,priority:1"`
	Status             SanctionStatus `gorm:"type:varchar(16);index:idx_steam_status,priority:2;index:idx_expires_status,priority:2;default:active"`
	RevokeAdminName    string     `gorm:"size:64"`
	RevokeAdminSteamID uint64
	RevokeReason       string `gorm:"type:text"`
	RevokeDate         *time.Time
}

// IsPermanent reports whether the record never expires on its own.
func (s *SanctionRecord) IsPermanent() bool {
	return s.ExpiresAt == nil
}

// IsExpired reports whether the record's expiry time has passed.
func (s *SanctionRecord) IsExpired() bool {
	return s.ExpiresAt != nil && time.Now().UTC().After(*s.ExpiresAt)
}

// IsActive reports whether the record is currently enforceable.
func (s *SanctionRecord) IsActive() bool {
	return s.Status == StatusActive && !s.IsExpired()
}

// TimeRemaining returns the duration until expiry, nil for permanent
// records. The result is negative once the record has expired.
func (s *SanctionRecord) TimeRemaining() *time.Duration {
	if s.ExpiresAt == nil {
		return nil
	}
	d := time.Until(*s.ExpiresAt)
	return &d
}

// RemainingMinutes returns the remaining time rounded up to whole
// minutes, for warning messages. Zero for permanent records.
func (s *SanctionRecord) RemainingMinutes() int {
	rem := s.TimeRemaining()
	if rem == nil || *rem < 0 {
		return 0
	}
	return int((*rem + time.Minute - 1) / time.Minute)
}
