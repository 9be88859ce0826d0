// Package config loads the service configuration that the hosting
// environment supplies: report-engine endpoint, tenant and timezone,
// planner tuning, the flat widget settings block and the raw JSON override
// string.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/diyip/tb-pivot-excel/pkg/reportcfg"
)

// Config is the full service configuration. It is resolved once at startup
// and immutable afterward.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`

	Engine EngineConfig `mapstructure:"engine"`

	TenantID string `mapstructure:"tenant_id"`
	Timezone string `mapstructure:"timezone"`

	Planner PlannerConfig `mapstructure:"planner"`

	// Settings is the structured widget settings block; Override is the
	// free-form JSON override string applied on top of it.
	Settings reportcfg.Settings `mapstructure:"settings"`
	Override string             `mapstructure:"override"`
}

// EngineConfig locates the report engine.
type EngineConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PlannerConfig tunes the adaptive query planner. Zero values keep the
// planner's built-in defaults.
type PlannerConfig struct {
	SafetyLimit     float64 `mapstructure:"safety_limit"`
	FallbackDensity float64 `mapstructure:"fallback_density"`
}

// Load reads configuration from the given file (optional), TBPE_* env vars
// and defaults, in that order of increasing precedence for env over file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8090")
	v.SetDefault("engine.url", "http://localhost:8000")
	v.SetDefault("engine.timeout", "120s")
	v.SetDefault("timezone", "Asia/Bangkok")
	v.SetDefault("planner.safety_limit", 40000)
	v.SetDefault("planner.fallback_density", 60)

	v.SetEnvPrefix("TBPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.URL == "" {
		return fmt.Errorf("engine.url must not be empty")
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout)
	}
	if c.Planner.SafetyLimit < 0 {
		return fmt.Errorf("planner.safety_limit must not be negative")
	}
	if c.Planner.FallbackDensity < 0 {
		return fmt.Errorf("planner.fallback_density must not be negative")
	}
	return nil
}
