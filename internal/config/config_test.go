package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "keiba-optimizer",
			Environment: "development",
			LogLevel:    "info",
		},
		DataSource: DataSourceConfig{
			BaseURL:        "https://race-data.internal/v1",
			TimeoutSeconds: 15,
			MaxRetries:     3,
			RateLimit:      2.0,
			UpcomingDays:   7,
			PastDays:       14,
			HistoryRaces:   5,
		},
		Optimizer: OptimizerConfig{
			BaseURL:        "http://localhost:9100",
			TimeoutSeconds: 20,
		},
		Cache: CacheConfig{
			EntrantTTLSeconds: 60,
			ResultTTLSeconds:  3600,
		},
		Scheduler: SchedulerConfig{
			Enabled:                true,
			RefreshIntervalSeconds: 300,
		},
		Server: ServerConfig{
			Port:                8000,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "qa" }},
		{"bad log level", func(c *Config) { c.App.LogLevel = "verbose" }},
		{"missing data source url", func(c *Config) { c.DataSource.BaseURL = "" }},
		{"malformed optimizer url", func(c *Config) { c.Optimizer.BaseURL = "not a url" }},
		{"zero timeout", func(c *Config) { c.DataSource.TimeoutSeconds = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"mock in production", func(c *Config) {
			c.App.Environment = "production"
			c.DataSource.Mock = true
		}},
		{"entrant ttl exceeds result ttl", func(c *Config) {
			c.Cache.EntrantTTLSeconds = 7200
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestBetUnitValidator(t *testing.T) {
	type request struct {
		Budget int `validate:"required,gt=0,betunit"`
	}
	cv := NewValidator()

	assert.NoError(t, cv.ValidateStruct(&request{Budget: 10000}))
	assert.NoError(t, cv.ValidateStruct(&request{Budget: 100}))
	assert.Error(t, cv.ValidateStruct(&request{Budget: 150}))
	assert.Error(t, cv.ValidateStruct(&request{Budget: -100}))
	assert.Error(t, cv.ValidateStruct(&request{Budget: 0}))
}

func TestLoadWithDefaults(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "keiba-optimizer", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Environment)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.NoError(t, Validate(cfg))
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\napp:\n  log_level: debug\n"), 0o644))

		cfg, err := LoadWithDefaults(path)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.App.LogLevel)
	})

	t.Run("environment placeholders are expanded", func(t *testing.T) {
		t.Setenv("TEST_DATA_URL", "https://example.test/v1")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("data_source:\n  base_url: ${TEST_DATA_URL}\n"), 0o644))

		cfg, err := LoadWithDefaults(path)
		require.NoError(t, err)
		assert.Equal(t, "https://example.test/v1", cfg.DataSource.BaseURL)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\n  - not yaml"), 0o644))

		_, err := LoadWithDefaults(path)
		assert.Error(t, err)
	})
}

func TestLoadRequiresFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
