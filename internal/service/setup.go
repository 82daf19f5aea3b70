package service

import (
	"cs-admin/internal/config"
	"cs-admin/internal/models"
	"cs-admin/internal/storage"
)

var (
	banRepository   *storage.SanctionRepository
	muteRepository  *storage.SanctionRepository
	gagRepository   *storage.SanctionRepository
	adminRepository *storage.AdminRepository

	banCache   *SanctionCache
	muteCache  *SanctionCache
	gagCache   *SanctionCache
	adminCache *AdminCache

	globalConfig *config.Config
)

// Initialize initializes the service with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
}

// InitRepositories builds the per-kind repositories over the shared
// connection, ensures their schemas and wires the caches.
func InitRepositories() error {
	db := storage.GetDB()

	banRepository = storage.NewSanctionRepository(db, models.KindBan)
	muteRepository = storage.NewSanctionRepository(db, models.KindMute)
	gagRepository = storage.NewSanctionRepository(db, models.KindGag)
	adminRepository = storage.NewAdminRepository(db)

	for _, repo := range []*storage.SanctionRepository{banRepository, muteRepository, gagRepository} {
		if err := repo.MigrateTable(); err != nil {
			return err
		}
	}
	if err := adminRepository.MigrateTable(); err != nil {
		return err
	}

	lifetime := globalConfig.Cache.Lifetime()
	banCache = NewSanctionCache(banRepository, lifetime)
	muteCache = NewSanctionCache(muteRepository, lifetime)
	gagCache = NewSanctionCache(gagRepository, lifetime)
	adminCache = NewAdminCache(adminRepository, lifetime)

	return nil
}

// Bans returns the ban cache.
func Bans() *SanctionCache { return banCache }

// Mutes returns the mute cache.
func Mutes() *SanctionCache { return muteCache }

// Gags returns the gag cache.
func Gags() *SanctionCache { return gagCache }

// Admins returns the admin cache.
func Admins() *AdminCache { return adminCache }

// InvalidateAllCaches evicts everything, used by periodic
// maintenance so the cohorts cannot carry stale entries for more
// than one maintenance interval even without traffic.
func InvalidateAllCaches() {
	for _, c := range []*SanctionCache{banCache, muteCache, gagCache} {
		if c != nil {
			c.InvalidateAll()
		}
	}
	if adminCache != nil {
		adminCache.InvalidateAll()
	}
}
