package config

import "fmt"

// validate validates the entire configuration.
func validate(cfg *Config) error {
	if err := validatePostgres(&cfg.Postgres); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}

	if err := validateRedis(&cfg.Redis); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := validateJWT(&cfg.JWT); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}

	return nil
}

// validatePostgres validates PostgreSQL configuration.
func validatePostgres(cfg *PostgresConfig) error {
	if cfg.Host == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	if cfg.User == "" {
		return fmt.Errorf("user is required")
	}

	if cfg.Database == "" {
		return fmt.Errorf("database is required")
	}

	if cfg.MaxConns < 0 {
		return fmt.Errorf("max_conns cannot be negative")
	}

	if cfg.MinConns < 0 {
		return fmt.Errorf("min_conns cannot be negative")
	}

	if cfg.MinConns > cfg.MaxConns && cfg.MaxConns > 0 {
		return fmt.Errorf("min_conns cannot exceed max_conns")
	}

	return nil
}

// validateRedis validates Redis configuration.
func validateRedis(cfg *RedisConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Cluster {
		if len(cfg.ClusterAddrs) == 0 {
			return fmt.Errorf("cluster_addrs is required in cluster mode")
		}
		return nil
	}

	if cfg.Host == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) error {
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", cfg.HTTPPort)
	}

	return nil
}

// validateJWT validates JWT configuration.
func validateJWT(cfg *JWTConfig) error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret is required")
	}

	if len(cfg.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 characters")
	}

	return nil
}
