// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Notion   NotionConfig   `mapstructure:"notion"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheConfig controls the result cache. Backend is "memory" or "redis".
type CacheConfig struct {
	Backend       string `mapstructure:"backend"`
	TTL           int    `mapstructure:"ttl"`            // seconds
	SweepInterval int    `mapstructure:"sweep_interval"` // seconds
}

// ResolverConfig controls the cache-then-upstream fallback chain.
type ResolverConfig struct {
	MaxAttempts     int `mapstructure:"max_attempts"`
	RetryDelay      int `mapstructure:"retry_delay"`      // milliseconds
	UpstreamTimeout int `mapstructure:"upstream_timeout"` // milliseconds
}

// NotionConfig holds credentials for the upstream record store.
type NotionConfig struct {
	APIKey     string `mapstructure:"api_key"`
	DatabaseID string `mapstructure:"database_id"`
	BaseURL    string `mapstructure:"base_url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
