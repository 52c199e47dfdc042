// Package config provides configuration management for the keiba optimizer.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Optimizer  OptimizerConfig  `mapstructure:"optimizer" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataSourceConfig represents the race data service client configuration.
// Mock selects the built-in demo data source instead of the live service;
// it is an explicit offline mode, never a fallback.
type DataSourceConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	UpcomingDays   int     `mapstructure:"upcoming_days" validate:"required,gt=0,lte=14"`
	PastDays       int     `mapstructure:"past_days" validate:"required,gt=0,lte=60"`
	HistoryRaces   int     `mapstructure:"history_races" validate:"gte=0,lte=10"`
	Mock           bool    `mapstructure:"mock"`
}

// OptimizerConfig represents the budget optimizer service configuration
type OptimizerConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// CacheConfig represents race data cache configuration
type CacheConfig struct {
	EntrantTTLSeconds int `mapstructure:"entrant_ttl_seconds" validate:"required,gt=0"`
	ResultTTLSeconds  int `mapstructure:"result_ttl_seconds" validate:"required,gt=0"`
}

// SchedulerConfig represents the background refresh configuration
type SchedulerConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	RefreshIntervalSeconds int  `mapstructure:"refresh_interval_seconds" validate:"required,gte=30"`
}

// ServerConfig represents the API server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DataSourceTimeout returns the data source request timeout as a duration
func (c *Config) DataSourceTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// OptimizerTimeout returns the optimizer request timeout as a duration
func (c *Config) OptimizerTimeout() time.Duration {
	return time.Duration(c.Optimizer.TimeoutSeconds) * time.Second
}
