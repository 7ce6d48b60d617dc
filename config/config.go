package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/logistics-sim/fleetsim/core/clock"
	"github.com/logistics-sim/fleetsim/core/dispatch"
	"github.com/logistics-sim/fleetsim/core/dispatch/logging"
	"github.com/logistics-sim/fleetsim/core/fleet"
	"github.com/logistics-sim/fleetsim/core/metrics"
	"github.com/logistics-sim/fleetsim/infra/mqtt"
)

// Config is the whole runtime configuration.
type Config struct {
	Clock    clock.Config    `json:"clock"`
	Dispatch dispatch.Config `json:"dispatch"`
	Fleet    fleet.Config    `json:"fleet"`
	Audit    logging.Config  `json:"audit"`
	Metrics  metrics.Config  `json:"metrics"`
	MQTT     mqtt.Config     `json:"mqtt"`
	// WorldPath points at the locations/blocked-pairs file.
	WorldPath string `json:"world_path"`
	// TickSeconds is the simulated time fed to the clock per external tick.
	TickSeconds float64 `json:"tick_seconds"`
	// TickIntervalMS is the wall-clock interval of the external ticker.
	TickIntervalMS int `json:"tick_interval_ms"`
}

// Load reads the configuration file, applying optional environment
// overrides with the FS_ prefix.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Clock.SetDefaults()
	c.Dispatch.SetDefaults()
	c.Fleet.SetDefaults()
	c.Audit.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	if c.TickSeconds <= 0 {
		c.TickSeconds = 1
	}
	if c.TickIntervalMS <= 0 {
		c.TickIntervalMS = 100
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Clock.Validate(); err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	if err := c.Dispatch.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.Fleet.Validate(); err != nil {
		return err
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if c.WorldPath == "" {
		return fmt.Errorf("world_path is required")
	}
	return nil
}
