// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sales_tracker/internal/auth"
)

// Config represents the complete configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig selects and configures the sales storage backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend"` // memory | postgres | supabase
	Postgres PostgresConfig `yaml:"postgres"`
	Supabase SupabaseConfig `yaml:"supabase"`
}

// PostgresConfig contains Postgres connection and pool settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// SupabaseConfig contains the hosted REST API endpoint and key.
type SupabaseConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// AuthConfig contains session-token settings and the seeded user set.
type AuthConfig struct {
	Secret        string      `yaml:"secret"`
	TokenTTLHours int         `yaml:"token_ttl_hours"`
	Users         []auth.User `yaml:"users"`
}

// TokenTTL returns the session token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// ConnMaxLifetime returns the pool connection lifetime.
func (p PostgresConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(p.ConnMaxLifetimeMinutes) * time.Minute
}

// Load reads, defaults, and validates the configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8081"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Storage.Postgres.Port == 0 {
		c.Storage.Postgres.Port = 5432
	}
	if c.Storage.Postgres.SSLMode == "" {
		c.Storage.Postgres.SSLMode = "disable"
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 20
	}
	if c.Storage.Postgres.MaxIdleConns == 0 {
		c.Storage.Postgres.MaxIdleConns = 5
	}
	if c.Storage.Postgres.ConnMaxLifetimeMinutes == 0 {
		c.Storage.Postgres.ConnMaxLifetimeMinutes = 30
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory":
	case "postgres":
		if c.Storage.Postgres.Host == "" || c.Storage.Postgres.DBName == "" {
			return fmt.Errorf("postgres backend requires host and dbname")
		}
	case "supabase":
		if c.Storage.Supabase.URL == "" || c.Storage.Supabase.APIKey == "" {
			return fmt.Errorf("supabase backend requires url and api_key")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret must be set")
	}
	for i, u := range c.Auth.Users {
		if u.ID == "" || u.Email == "" || u.PasswordHash == "" {
			return fmt.Errorf("auth user %d is missing id, email, or password_hash", i)
		}
	}
	return nil
}
