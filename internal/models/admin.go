package models

import (
	"strings"
	"time"
)

// AdminRecord grants capability flags and an immunity level to a
// player. One record per steam ID; removal is a hard delete.
type AdminRecord struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	SteamID          uint64 `gorm:"uniqueIndex;not null"`
	Name             string `gorm:"size:64;not null"`
	Flags            string `gorm:"size:255;not null"`
	Immunity         int    `gorm:"default:0"`
	CreatedAt        time.Time
	ExpiresAt        *time.Time `gorm:"index"`
	GrantedBy        string     `gorm:"size:64"`
	GrantedBySteamID uint64
}

func (a *AdminRecord) TableName() string {
	return "admins"
}

// IsPermanent reports whether the grant never expires.
func (a *AdminRecord) IsPermanent() bool {
	return a.ExpiresAt == nil
}

// IsExpired reports whether the grant's expiry time has passed.
func (a *AdminRecord) IsExpired() bool {
	return a.ExpiresAt != nil && time.Now().UTC().After(*a.ExpiresAt)
}

// IsActive reports whether the grant is currently in force. Admin
// records have no revoked state; expiry is the only way out short of
// deletion.
func (a *AdminRecord) IsActive() bool {
	return !a.IsExpired()
}

// FlagList splits the stored capability tokens, dropping empties and
// surrounding whitespace.
func (a *AdminRecord) FlagList() []string {
	parts := strings.Split(a.Flags, ",")
	flags := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := strings.TrimSpace(p); f != "" {
			flags = append(flags, f)
		}
	}
	return flags
}
