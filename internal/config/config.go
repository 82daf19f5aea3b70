package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Discord     DiscordConfig     `mapstructure:"discord"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Commands    CommandsConfig    `mapstructure:"commands"`
	Permissions PermissionsConfig `mapstructure:"permissions"`
	Sanctions   SanctionsConfig   `mapstructure:"sanctions"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DiscordConfig struct {
	Webhook string `mapstructure:"webhook"`
}

// cache and sweep timing
type CacheConfig struct {
	LifetimeMinutes  int `mapstructure:"lifetime_minutes"`
	SweepSeconds     int `mapstructure:"sweep_seconds"`
	MaintenanceHours int `mapstructure:"maintenance_hours"`
}

func (c CacheConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeMinutes) * time.Minute
}

func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}

func (c CacheConfig) MaintenanceInterval() time.Duration {
	return time.Duration(c.MaintenanceHours) * time.Hour
}

// command trigger aliases, all matched without their !/ prefix
type CommandsConfig struct {
	Asay        []string `mapstructure:"asay"`
	Say         []string `mapstructure:"say"`
	Psay        []string `mapstructure:"psay"`
	Csay        []string `mapstructure:"csay"`
	Hsay        []string `mapstructure:"hsay"`
	Ban         []string `mapstructure:"ban"`
	AddBan      []string `mapstructure:"addban"`
	Unban       []string `mapstructure:"unban"`
	Mute        []string `mapstructure:"mute"`
	Unmute      []string `mapstructure:"unmute"`
	Gag         []string `mapstructure:"gag"`
	Ungag       []string `mapstructure:"ungag"`
	Silence     []string `mapstructure:"silence"`
	Unsilence   []string `mapstructure:"unsilence"`
	Kick        []string `mapstructure:"kick"`
	AddAdmin    []string `mapstructure:"addadmin"`
	RemoveAdmin []string `mapstructure:"removeadmin"`
	ListAdmins  []string `mapstructure:"listadmins"`
	ListPlayers []string `mapstructure:"listplayers"`
	Who         []string `mapstructure:"who"`
	ServerInfo  []string `mapstructure:"serverinfo"`
}

// BroadcastAliases returns the admin chat-broadcast triggers that the
// chat gate must let through unexamined.
func (c CommandsConfig) BroadcastAliases() []string {
	var out []string
	for _, group := range [][]string{c.Asay, c.Say, c.Psay, c.Csay, c.Hsay} {
		out = append(out, group...)
	}
	return out
}

// capability tokens required per command group
type PermissionsConfig struct {
	Chat        string `mapstructure:"chat"`
	Ban         string `mapstructure:"ban"`
	Unban       string `mapstructure:"unban"`
	Mute        string `mapstructure:"mute"`
	Gag         string `mapstructure:"gag"`
	Silence     string `mapstructure:"silence"`
	Kick        string `mapstructure:"kick"`
	Root        string `mapstructure:"root"`
	ListAdmins  string `mapstructure:"listadmins"`
	ListPlayers string `mapstructure:"listplayers"`
	Generic     string `mapstructure:"generic"`
}

// preset reasons and durations offered to admins
type SanctionsConfig struct {
	BanReasons  []string               `mapstructure:"ban_reasons"`
	MuteReasons []string               `mapstructure:"mute_reasons"`
	GagReasons  []string               `mapstructure:"gag_reasons"`
	KickReasons []string               `mapstructure:"kick_reasons"`
	Durations   []SanctionDurationItem `mapstructure:"durations"`
}

type SanctionDurationItem struct {
	Name    string `mapstructure:"name"`
	Minutes int    `mapstructure:"minutes"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetEnvPrefix("CSADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Unmarshal configuration
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.charset", "utf8mb4")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("discord.webhook", "")

	v.SetDefault("cache.lifetime_minutes", 5)
	v.SetDefault("cache.sweep_seconds", 30)
	v.SetDefault("cache.maintenance_hours", 24)

	v.SetDefault("commands.asay", []string{"asay"})
	v.SetDefault("commands.say", []string{"say"})
	v.SetDefault("commands.psay", []string{"psay"})
	v.SetDefault("commands.csay", []string{"csay"})
	v.SetDefault("commands.hsay", []string{"hsay"})
	v.SetDefault("commands.ban", []string{"ban"})
	v.SetDefault("commands.addban", []string{"addban"})
	v.SetDefault("commands.unban", []string{"unban"})
	v.SetDefault("commands.mute", []string{"mute"})
	v.SetDefault("commands.unmute", []string{"unmute"})
	v.SetDefault("commands.gag", []string{"gag"})
	v.SetDefault("commands.ungag", []string{"ungag"})
	v.SetDefault("commands.silence", []string{"silence"})
	v.SetDefault("commands.unsilence", []string{"unsilence"})
	v.SetDefault("commands.kick", []string{"kick"})
	v.SetDefault("commands.addadmin", []string{"addadmin"})
	v.SetDefault("commands.removeadmin", []string{"removeadmin"})
	v.SetDefault("commands.listadmins", []string{"listadmins", "admins"})
	v.SetDefault("commands.listplayers", []string{"players", "list"})
	v.SetDefault("commands.who", []string{"who"})
	v.SetDefault("commands.serverinfo", []string{"serverinfo", "status"})

	v.SetDefault("permissions.chat", "admin.chat")
	v.SetDefault("permissions.ban", "admin.ban")
	v.SetDefault("permissions.unban", "admin.unban")
	v.SetDefault("permissions.mute", "admin.mute")
	v.SetDefault("permissions.gag", "admin.chat")
	v.SetDefault("permissions.silence", "admin.silence")
	v.SetDefault("permissions.kick", "admin.kick")
	v.SetDefault("permissions.root", "admin.root")
	v.SetDefault("permissions.listadmins", "admin.menu")
	v.SetDefault("permissions.listplayers", "admin.generic")
	v.SetDefault("permissions.generic", "admin.generic")

	v.SetDefault("sanctions.ban_reasons", []string{
		"Hacking", "Obscene language", "Insult players", "Admin disrespect", "Other",
	})
	v.SetDefault("sanctions.mute_reasons", []string{
		"Obscene language", "Insult players", "Spamming", "Admin disrespect", "Other",
	})
	v.SetDefault("sanctions.gag_reasons", []string{
		"Obscene language", "Insult players", "Spamming", "Admin disrespect", "Other",
	})
	v.SetDefault("sanctions.kick_reasons", []string{
		"Obscene language", "Insult players", "AFK", "Admin disrespect", "Other",
	})
}
