package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3500/api/v1", cfg.BackendURL)
	require.Equal(t, 30*time.Second, cfg.BackendTimeout)
	require.Equal(t, time.Minute, cfg.DashboardCacheTTL)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.False(t, cfg.IsProduction())
}

func TestLoadReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("SCHOOL_CONSOLE_BACKEND_URL", "https://school.example.com/api/v1/")
	t.Setenv("SCHOOL_CONSOLE_BACKEND_TIMEOUT", "5s")
	t.Setenv("SCHOOL_CONSOLE_APP_PORT", ":9090")
	t.Setenv("SCHOOL_CONSOLE_DASHBOARD_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://school.example.com/api/v1", cfg.BackendURL)
	require.Equal(t, 5*time.Second, cfg.BackendTimeout)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SCHOOL_CONSOLE_BACKEND_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("SCHOOL_CONSOLE_BACKEND_TIMEOUT", "5s")
	t.Setenv("SCHOOL_CONSOLE_BACKEND_URL", "localhost:3500")
	_, err = Load()
	require.Error(t, err)
}
