package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:8000", cfg.Engine.URL)
	assert.Equal(t, 120*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, "Asia/Bangkok", cfg.Timezone)
	assert.Equal(t, float64(40000), cfg.Planner.SafetyLimit)
	assert.Equal(t, float64(60), cfg.Planner.FallbackDensity)
	assert.Empty(t, cfg.TenantID)
	assert.Empty(t, cfg.Override)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
tenant_id: tenant-7
timezone: Europe/Berlin
engine:
  url: http://reports.internal:8000
  timeout: 30s
planner:
  safety_limit: 20000
  fallback_density: 12
settings:
  filename: plant_report.xlsx
  add_timestamp: false
  default_agg: max
override: '{"agg_map": {"pmIn1HrAvg": "sum"}}'
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "tenant-7", cfg.TenantID)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "http://reports.internal:8000", cfg.Engine.URL)
	assert.Equal(t, 30*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, float64(20000), cfg.Planner.SafetyLimit)
	assert.Equal(t, float64(12), cfg.Planner.FallbackDensity)

	require.NotNil(t, cfg.Settings.Filename)
	assert.Equal(t, "plant_report.xlsx", *cfg.Settings.Filename)
	require.NotNil(t, cfg.Settings.AddTimestamp)
	assert.False(t, *cfg.Settings.AddTimestamp)
	require.NotNil(t, cfg.Settings.DefaultAgg)
	assert.Equal(t, "max", *cfg.Settings.DefaultAgg)

	assert.JSONEq(t, `{"agg_map": {"pmIn1HrAvg": "sum"}}`, cfg.Override)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("TBPE_TIMEZONE", "America/New_York")
	t.Setenv("TBPE_ENGINE_TIMEOUT", "45s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 45*time.Second, cfg.Engine.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty engine url", "engine:\n  url: \"\"\n"},
		{"zero timeout", "engine:\n  timeout: 0s\n"},
		{"negative safety limit", "planner:\n  safety_limit: -1\n"},
		{"negative fallback density", "planner:\n  fallback_density: -5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}
