// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Store     StoreConfig     `mapstructure:"store"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Daily     DailyConfig     `mapstructure:"daily"`
	Games     GamesConfig     `mapstructure:"games"`
	Keepalive KeepaliveConfig `mapstructure:"keepalive"`
	Log       LogConfig       `mapstructure:"log"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
// URL, when set, takes precedence over the individual fields.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// StoreConfig selects the profile store backend.
type StoreConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// WhitelistConfig restricts the chats the bot answers in.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// DailyConfig holds the login bonus schedule.
type DailyConfig struct {
	BaseBonus   int64  `mapstructure:"base_bonus"`
	WeeklyBonus int64  `mapstructure:"weekly_bonus"`
	FifthBonus  int64  `mapstructure:"fifth_bonus"`
	Timezone    string `mapstructure:"timezone"`
}

// GamesConfig holds stake limits and session timeouts.
type GamesConfig struct {
	MaxBet                 int64         `mapstructure:"max_bet"`
	CoinflipStake          int64         `mapstructure:"coinflip_stake"`
	RussianRouletteTimeout time.Duration `mapstructure:"russian_roulette_timeout"`
	BlackjackTimeout       time.Duration `mapstructure:"blackjack_timeout"`
}

// KeepaliveConfig holds the HTTP keep-alive endpoint settings.
type KeepaliveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Location resolves the configured daily timezone.
func (d *DailyConfig) Location() (*time.Location, error) {
	if d.Timezone == "" || strings.EqualFold(d.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid daily timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// Addr returns the listen address of the keep-alive server.
func (k *KeepaliveConfig) Addr() string {
	return fmt.Sprintf("%s:%d", k.Host, k.Port)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in configPath, the working directory and ./config.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, STORE_DRIVER, GAMES_MAX_BET.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names used by common hosting platforms.
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("keepalive.port", "KEEPALIVE_PORT", "PORT")
	_ = v.BindEnv("bot.token", "BOT_TOKEN", "TELEGRAM_BOT_TOKEN")

	// Config file is optional; env vars can provide everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Games.MaxBet <= 0 {
		return fmt.Errorf("games.max_bet must be positive, got %d", c.Games.MaxBet)
	}
	if _, err := c.Daily.Location(); err != nil {
		return err
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.poll_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "casino")
	v.SetDefault("database.name", "casino")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("store.sqlite_path", "casino.db")

	v.SetDefault("daily.base_bonus", 200)
	v.SetDefault("daily.weekly_bonus", 1500)
	v.SetDefault("daily.fifth_bonus", 100)
	v.SetDefault("daily.timezone", "Local")

	v.SetDefault("games.max_bet", 255)
	v.SetDefault("games.coinflip_stake", 50)
	v.SetDefault("games.russian_roulette_timeout", "30s")
	v.SetDefault("games.blackjack_timeout", "60s")

	v.SetDefault("keepalive.enabled", true)
	v.SetDefault("keepalive.host", "0.0.0.0")
	v.SetDefault("keepalive.port", 8000)

	v.SetDefault("log.level", "info")
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}
