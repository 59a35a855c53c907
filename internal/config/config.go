// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	DBURL           string        `mapstructure:"DB_URL"`
	MigrationsPath  string        `mapstructure:"MIGRATIONS_PATH"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	GithubAPIURL    string        `mapstructure:"GITHUB_API_URL"`
	GithubToken     string        `mapstructure:"GITHUB_TOKEN"`
	GithubTimeout   time.Duration `mapstructure:"GITHUB_TIMEOUT"`
	SyncInterval    time.Duration `mapstructure:"SYNC_INTERVAL"`
	SyncConcurrency int           `mapstructure:"SYNC_CONCURRENCY"`
	SyncLockTTL     time.Duration `mapstructure:"SYNC_LOCK_TTL"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com/")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_TIMEOUT", "20s")
	v.SetDefault("SYNC_INTERVAL", "0s")
	v.SetDefault("SYNC_CONCURRENCY", 5)
	v.SetDefault("SYNC_LOCK_TTL", "5m")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(configPath)
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.GithubTimeout <= 0 {
		return nil, errors.New("GITHUB_TIMEOUT must be a positive duration")
	}
	if cfg.SyncInterval < 0 {
		return nil, errors.New("SYNC_INTERVAL must not be negative")
	}
	if cfg.SyncConcurrency < 1 {
		return nil, errors.New("SYNC_CONCURRENCY must be at least 1")
	}
	if cfg.SyncLockTTL <= 0 {
		return nil, errors.New("SYNC_LOCK_TTL must be a positive duration")
	}

	return &cfg, nil
}
