// Package config provides configuration management for the Bidsight application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	ML        MLConfig        `mapstructure:"ml" validate:"required"`
	AI        AIConfig        `mapstructure:"ai"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Health    HealthConfig    `mapstructure:"health" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Features  FeaturesConfig  `mapstructure:"features" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
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

// MLConfig represents model training and serving configuration
type MLConfig struct {
	ArtifactsDir    string `mapstructure:"artifacts_dir" validate:"required"`
	KeepVersions    int    `mapstructure:"keep_versions" validate:"required,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// AIConfig represents the Gemini advisor configuration. The advisor is
// optional; when disabled every assessment falls back to defaults.
type AIConfig struct {
	Enabled               bool    `mapstructure:"enabled"`
	BaseURL               string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey                string  `mapstructure:"api_key"`
	Model                 string  `mapstructure:"model"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries            int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit             float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// SchedulerConfig holds the cron expressions for background jobs
type SchedulerConfig struct {
	TrainingCron          string `mapstructure:"training_cron" validate:"required,cron"`
	PredictionRefreshCron string `mapstructure:"prediction_refresh_cron" validate:"required,cron"`
	CustomerAnalyticsCron string `mapstructure:"customer_analytics_cron" validate:"required,cron"`
}

// HealthConfig represents the health endpoint configuration
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	AIBlendEnabled           bool `mapstructure:"ai_blend_enabled"`
	AutoTrainingEnabled      bool `mapstructure:"auto_training_enabled"`
	PredictionRefreshEnabled bool `mapstructure:"prediction_refresh_enabled"`
	CustomerAnalyticsEnabled bool `mapstructure:"customer_analytics_enabled"`
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

// PredictionCacheTTL returns the prediction cache lifetime
func (c *Config) PredictionCacheTTL() time.Duration {
	return time.Duration(c.ML.CacheTTLSeconds) * time.Second
}

// AIRequestTimeout returns the advisor request timeout
func (c *Config) AIRequestTimeout() time.Duration {
	return time.Duration(c.AI.RequestTimeoutSeconds) * time.Second
}
