package domain

import "time"

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Narrator NarratorConfig `mapstructure:"narrator"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests/sec per client
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// UploadConfig bounds the incoming VCF upload.
type UploadConfig struct {
	MaxFileSize int64 `mapstructure:"max_file_size"` // bytes
}

// NarratorConfig configures the plain-language summary generator.
type NarratorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig configures the narrator summary cache.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"` // empty: in-process LRU only
	TTL      time.Duration `mapstructure:"ttl"`
	LRUSize  int           `mapstructure:"lru_size"`
}

// AuditConfig selects the usage-audit backend. Driver is one of
// "none", "sqlite", "postgres".
type AuditConfig struct {
	Driver         string `mapstructure:"driver"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	PostgresURL    string `mapstructure:"postgres_url"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}
