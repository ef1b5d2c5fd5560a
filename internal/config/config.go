// Package config loads runtime configuration from file, environment and
// defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nepaldata/projectgraph/internal/resolve"
)

const (
	// DefaultRequestsPerSecond caps outbound requests per domain per second.
	DefaultRequestsPerSecond = 2

	// DefaultRequestsPerMinute caps outbound requests per domain per minute.
	DefaultRequestsPerMinute = 30

	// DefaultMaxRetries is the retry budget per fetched URL.
	DefaultMaxRetries = 3
)

// Config holds all configuration for projectgraph.
type Config struct {
	Neo4j     Neo4jConfig     `mapstructure:"neo4j"`
	Paths     PathsConfig     `mapstructure:"paths"`
	Migration MigrationConfig `mapstructure:"migration"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// String returns a safe representation with the password masked.
func (c Neo4jConfig) String() string {
	masked := "***"
	if c.Password == "" {
		masked = ""
	}
	return fmt.Sprintf("Neo4jConfig{URI:%s, Username:%s, Password:%s, Database:%s}",
		c.URI, c.Username, masked, c.Database)
}

// PathsConfig holds the payload cache and artifact directories.
type PathsConfig struct {
	SourceDir string `mapstructure:"source_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

// MigrationConfig holds per-run migration settings.
type MigrationConfig struct {
	ResolutionPolicy string `mapstructure:"resolution_policy"`
	AuthorSlug       string `mapstructure:"author_slug"`
	AuthorName       string `mapstructure:"author_name"`
}

// FetchConfig holds scraper rate limiting and retry settings.
type FetchConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	MaxRetries        int `mapstructure:"max_retries"`
	TimeoutSeconds    int `mapstructure:"timeout_seconds"`
}

// Timeout returns the per-request deadline.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "neo4j")

	v.SetDefault("paths.source_dir", "data/sources")
	v.SetDefault("paths.output_dir", "data/normalized")

	v.SetDefault("migration.resolution_policy", "lenient")
	v.SetDefault("migration.author_slug", "data-migration")
	v.SetDefault("migration.author_name", "Data Migration")

	v.SetDefault("fetch.requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("fetch.requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("fetch.max_retries", DefaultMaxRetries)
	v.SetDefault("fetch.timeout_seconds", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("projectgraph")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables
	v.SetEnvPrefix("PROJECTGRAPH")
	v.AutomaticEnv()

	_ = v.BindEnv("neo4j.uri", "PROJECTGRAPH_NEO4J_URI")
	_ = v.BindEnv("neo4j.username", "PROJECTGRAPH_NEO4J_USERNAME")
	_ = v.BindEnv("neo4j.password", "PROJECTGRAPH_NEO4J_PASSWORD")
	_ = v.BindEnv("neo4j.database", "PROJECTGRAPH_NEO4J_DATABASE")
	_ = v.BindEnv("migration.resolution_policy", "PROJECTGRAPH_RESOLUTION_POLICY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri must not be empty")
	}
	if c.Paths.SourceDir == "" {
		return fmt.Errorf("paths.source_dir must not be empty")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir must not be empty")
	}
	if _, err := resolve.ParsePolicy(c.Migration.ResolutionPolicy); err != nil {
		return fmt.Errorf("migration.resolution_policy: %w", err)
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		return fmt.Errorf("fetch.requests_per_second must be greater than 0")
	}
	if c.Fetch.RequestsPerMinute < c.Fetch.RequestsPerSecond {
		return fmt.Errorf("fetch.requests_per_minute (%d) must be >= fetch.requests_per_second (%d)",
			c.Fetch.RequestsPerMinute, c.Fetch.RequestsPerSecond)
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must be >= 0")
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return fmt.Errorf("fetch.timeout_seconds must be >= 0")
	}
	return nil
}
