package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileLoader loads configuration from YAML files and environment variables.
type FileLoader struct {
	configPath string
}

// NewFileLoader creates a new file loader.
func NewFileLoader(configPath string) *FileLoader {
	return &FileLoader{
		configPath: configPath,
	}
}

// Load loads configuration from file and environment variables.
func (l *FileLoader) Load() (*Config, error) {
	v := viper.New()

	// Set config file
	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
	} else {
		// Default config paths
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Environment variable support
	v.SetEnvPrefix("MS") // Music Service prefix
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	l.setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional if all required values are in env
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func (l *FileLoader) setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// PostgreSQL defaults
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("postgres.min_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", "5m")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cluster", false)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.pool_timeout", 4*time.Second)
	v.SetDefault("redis.enabled", true)

	// JWT defaults
	v.SetDefault("jwt.issuer", "music-svc")
	v.SetDefault("jwt.token_expiry", time.Hour)
	v.SetDefault("jwt.refresh_expiry", 7*24*time.Hour)

	// Log defaults
	v.SetDefault("log.level", "info")

	// Cron defaults
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.analytics_refresh_spec", "*/5 * * * *")
}

// LoadFromEnv loads configuration from environment variables only.
// Useful for containerized deployments.
func LoadFromEnv() (*Config, error) {
	loader := NewFileLoader("")

	v := viper.New()
	v.SetEnvPrefix("MS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loader.setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from env: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
