package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://postgres:@localhost:5432/folio_service?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "0 0 * * *", cfg.Snapshots.Schedule)
	assert.True(t, cfg.Snapshots.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "MEMORY")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080},
			Database:  DatabaseConfig{Driver: DriverMemory},
			RateLimit: RateLimitConfig{RequestsPerMinute: 10},
			Snapshots: SnapshotsConfig{Enabled: true, Schedule: "0 0 * * *"},
			Tracing:   TracingConfig{SampleRate: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: true},
		{name: "incomplete postgres", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "bad schedule", mutate: func(c *Config) { c.Snapshots.Schedule = "whenever" }, wantErr: true},
		{name: "bad schedule ignored when disabled", mutate: func(c *Config) {
			c.Snapshots.Enabled = false
			c.Snapshots.Schedule = "whenever"
		}},
		{name: "sample rate out of range", mutate: func(c *Config) { c.Tracing.SampleRate = 2 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
