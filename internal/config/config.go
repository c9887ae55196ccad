package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Provider  ProviderConfig  `yaml:"provider"`
	Archive   ArchiveConfig   `yaml:"archive"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Timezone  string          `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// ProviderConfig contains scraping API settings. The API key is
// sensitive, so it falls back to the SCRAPER_API_KEY environment
// variable (a .env file is honored) when the YAML leaves it blank.
type ProviderConfig struct {
	APIKey              string `yaml:"api_key"`
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
	MaxRetries          int    `yaml:"max_retries"`
	RetryDelaySeconds   int    `yaml:"retry_delay_seconds"`
	RequestDelaySeconds int    `yaml:"request_delay_seconds"`
}

// ArchiveConfig contains object-store settings
type ArchiveConfig struct {
	BucketPath string `yaml:"bucket_path"`
}

// RateLimitConfig contains upstream quota settings
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	RequestsPerDay    int  `yaml:"requests_per_day"`
}

// CleanupConfig contains archive retention settings
type CleanupConfig struct {
	DailyRunEnabled  bool   `yaml:"daily_run_enabled"`
	DailyRunTime     string `yaml:"daily_run_time"`
	MaxDeletionCount int    `yaml:"max_deletion_count"`
	DryRun           bool   `yaml:"dry_run"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Type: "mysql",
			MySQL: MySQLConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "dashboard",
				Database: "dashboard",
			},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "dashboard",
				Database: "dashboard",
				SSLMode:  "disable",
			},
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{
				Host: "http://localhost:7700",
			},
		},
		Provider: ProviderConfig{
			TimeoutSeconds:      60,
			MaxRetries:          3,
			RetryDelaySeconds:   2,
			RequestDelaySeconds: 1,
		},
		Archive: ArchiveConfig{
			BucketPath: "./data/archive",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 10,
			RequestsPerHour:   200,
			RequestsPerDay:    1000,
		},
		Cleanup: CleanupConfig{
			DailyRunEnabled:  true,
			DailyRunTime:     "03:00",
			MaxDeletionCount: 1000,
			DryRun:           false,
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to
// defaults for anything missing.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// A .env file is optional; environment variables win regardless.
	_ = godotenv.Load()

	if _, err := os.Stat(filepath); !os.IsNotExist(err) {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv fills secrets and connection settings from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCRAPER_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.MySQL.Password = v
		c.Database.Postgres.Password = v
	}
	if v := os.Getenv("MEILISEARCH_API_KEY"); v != "" {
		c.Search.Meilisearch.APIKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET_PATH"); v != "" {
		c.Archive.BucketPath = v
	}
}

// GetTimeout returns the upstream timeout as a duration
func (c *ProviderConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetRetryDelay returns the retry delay as a duration
func (c *ProviderConfig) GetRetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// GetRequestDelay returns the inter-request delay as a duration
func (c *ProviderConfig) GetRequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds) * time.Second
}
