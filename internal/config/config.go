// Package config provides configuration management for the props model pipeline.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	OddsAPI      OddsAPIConfig      `mapstructure:"odds_api" validate:"required"`
	ModelService ModelServiceConfig `mapstructure:"model_service" validate:"required"`
	Features     FeaturesConfig     `mapstructure:"features" validate:"required"`
	Edge         EdgeConfig         `mapstructure:"edge" validate:"required"`
	Selection    SelectionConfig    `mapstructure:"selection" validate:"required"`
	Pipeline     PipelineConfig     `mapstructure:"pipeline" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	Schedule     ScheduleConfig     `mapstructure:"schedule"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	Timezone    string `mapstructure:"timezone" validate:"required"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// OddsAPIConfig represents The Odds API client configuration
type OddsAPIConfig struct {
	BaseURL        string   `mapstructure:"base_url" validate:"required,url"`
	APIKey         string   `mapstructure:"api_key" validate:"required"`
	Sport          string   `mapstructure:"sport" validate:"required"`
	Regions        string   `mapstructure:"regions" validate:"required"`
	BookPriority   []string `mapstructure:"book_priority" validate:"required,min=1"`
	RateLimit      float64  `mapstructure:"rate_limit" validate:"required,gt=0"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int      `mapstructure:"max_retries" validate:"gte=0"`
}

// ModelServiceConfig represents the model-serving service configuration
type ModelServiceConfig struct {
	URL                   string `mapstructure:"url" validate:"required,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int    `mapstructure:"retry_attempts" validate:"gte=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// FeaturesConfig represents feature builder configuration
type FeaturesConfig struct {
	Workers                 int     `mapstructure:"workers" validate:"gte=0"`
	StarterMinutesThreshold float64 `mapstructure:"starter_minutes_threshold" validate:"required,gt=0"`
}

// EdgeConfig represents dispersion handling in the edge scorer
type EdgeConfig struct {
	DispersionFloor    float64 `mapstructure:"dispersion_floor" validate:"required,gt=0"`
	FallbackDispersion float64 `mapstructure:"fallback_dispersion" validate:"required,gt=0"`
}

// SelectionConfig represents the slate selection constraints
type SelectionConfig struct {
	MaxPicks  int `mapstructure:"max_picks" validate:"required,gt=0"`
	MaxUnders int `mapstructure:"max_unders" validate:"gte=0"`
}

// PipelineConfig represents per-run pipeline behavior
type PipelineConfig struct {
	Categories    []string `mapstructure:"categories" validate:"required,min=1,categories"`
	ArchivePicks  bool     `mapstructure:"archive_picks"`
	ArchiveQuotes bool     `mapstructure:"archive_quotes"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents the daily slate schedule
type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves the configured timezone. Run dates and the daily
// schedule are anchored to it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}
