package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pharmaguard-server/internal/domain"
)

// Manager loads and validates application configuration using Viper.
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/pharmaguard/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("PHARMAGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars suffice
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_limit", 10.0)
	viper.SetDefault("server.rate_limit_burst", 20)

	// Upload defaults
	viper.SetDefault("upload.max_file_size", 5*1024*1024)

	// Narrator defaults
	viper.SetDefault("narrator.enabled", false)
	viper.SetDefault("narrator.api_key", "")
	viper.SetDefault("narrator.model", "gemini-2.0-flash")
	viper.SetDefault("narrator.timeout", "15s")

	// Cache defaults
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.lru_size", 1024)

	// Audit defaults
	viper.SetDefault("audit.driver", "none")
	viper.SetDefault("audit.sqlite_path", "./data/audit.db")
	viper.SetDefault("audit.postgres_url", "")
	viper.SetDefault("audit.migrations_path", "./migrations")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.RateLimit <= 0 {
		return fmt.Errorf("invalid rate limit: %f", config.Server.RateLimit)
	}

	if config.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("invalid max file size: %d", config.Upload.MaxFileSize)
	}

	if config.Narrator.Enabled && config.Narrator.APIKey == "" {
		return fmt.Errorf("narrator enabled but no API key configured")
	}

	switch strings.ToLower(config.Audit.Driver) {
	case "none", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid audit driver: %s", config.Audit.Driver)
	}
	if strings.ToLower(config.Audit.Driver) == "postgres" && config.Audit.PostgresURL == "" {
		return fmt.Errorf("audit driver postgres requires a postgres URL")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}
