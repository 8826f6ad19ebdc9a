package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.SettingsCacheTTL)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "tickets")
	t.Setenv("NATS_URL", "nats://bus:4222")
	t.Setenv("ENV", "production")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "nats://bus:4222", cfg.NATS.URL)
	assert.Contains(t, cfg.Database.DSN(), "host=db")
	assert.Contains(t, cfg.Database.DSN(), "dbname=tickets")
	assert.True(t, cfg.IsProduction())
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("SOME_INT", "12")
	t.Setenv("BAD_INT", "twelve")

	assert.Equal(t, 12, GetIntEnv("SOME_INT", 1))
	assert.Equal(t, 1, GetIntEnv("BAD_INT", 1))
	assert.Equal(t, 7, GetIntEnv("MISSING_INT", 7))
	assert.Equal(t, "x", GetEnv("MISSING_STR", "x"))
}
