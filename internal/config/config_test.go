package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  username: test
  password: secret
  dbname: csadmin
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "utf8mb4", cfg.Database.Charset)

	assert.Equal(t, 5*time.Minute, cfg.Cache.Lifetime())
	assert.Equal(t, 30*time.Second, cfg.Cache.SweepInterval())
	assert.Equal(t, 24*time.Hour, cfg.Cache.MaintenanceInterval())

	assert.Equal(t, "INFO", cfg.Logger.Level)
	assert.Equal(t, "admin.ban", cfg.Permissions.Ban)
	assert.Contains(t, cfg.Commands.ListAdmins, "admins")
	assert.NotEmpty(t, cfg.Sanctions.BanReasons)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
cache:
  lifetime_minutes: 2
  sweep_seconds: 10
  maintenance_hours: 6
permissions:
  ban: custom.ban
commands:
  ban: [ban, b]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Cache.Lifetime())
	assert.Equal(t, 10*time.Second, cfg.Cache.SweepInterval())
	assert.Equal(t, 6*time.Hour, cfg.Cache.MaintenanceInterval())
	assert.Equal(t, "custom.ban", cfg.Permissions.Ban)
	assert.Equal(t, []string{"ban", "b"}, cfg.Commands.Ban)
}

func TestLoadMissingPathFails(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBroadcastAliases(t *testing.T) {
	path := writeConfig(t, `
commands:
  asay: [asay, a]
  csay: [csay]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	aliases := cfg.Commands.BroadcastAliases()
	assert.Contains(t, aliases, "asay")
	assert.Contains(t, aliases, "a")
	assert.Contains(t, aliases, "csay")
	assert.Contains(t, aliases, "say")
}
