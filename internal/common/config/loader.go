// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like NOTION_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when not present
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location where it exists, so the
// server can be started from the repo root, cmd/server, or a test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "brandpulse"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		// Writes can sit behind the resolver's full retry window (3x2s)
		// plus the upstream query, so leave generous room.
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600 // 1 hour
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = 600 // 10 minutes
	}
	if cfg.Resolver.MaxAttempts == 0 {
		cfg.Resolver.MaxAttempts = 3
	}
	if cfg.Resolver.RetryDelay == 0 {
		cfg.Resolver.RetryDelay = 2000
	}
	if cfg.Resolver.UpstreamTimeout == 0 {
		cfg.Resolver.UpstreamTimeout = 10000
	}
	if cfg.Notion.Timeout == 0 {
		cfg.Notion.Timeout = 10000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// overrideFromEnv applies direct environment variables that viper's
// AutomaticEnv does not surface through Unmarshal.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("NOTION_API_KEY"); v != "" {
		cfg.Notion.APIKey = v
	}
	if v := os.Getenv("NOTION_DATABASE_ID"); v != "" {
		cfg.Notion.DatabaseID = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		cfg.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	if cfg.Cache.Backend == "redis" && cfg.Redis.Address == "" {
		return fmt.Errorf("redis cache backend requires redis.address")
	}

	if cfg.Resolver.MaxAttempts < 1 {
		return fmt.Errorf("resolver.max_attempts must be at least 1")
	}

	// Credentials must come from the environment in production; there is no
	// usable fallback database id outside local testing.
	if cfg.App.Environment == "production" {
		if cfg.Notion.APIKey == "" {
			return fmt.Errorf("notion.api_key is required in production")
		}
		if cfg.Notion.DatabaseID == "" {
			return fmt.Errorf("notion.database_id is required in production")
		}
	}

	return nil
}
