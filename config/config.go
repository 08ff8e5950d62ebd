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

	"github.com/maintops/crewsched/core/metrics"
	"github.com/maintops/crewsched/infra/notify"
)

// Config is the root configuration of the scheduling service.
type Config struct {
	Engine  EngineConfig   `json:"engine"`
	Shifts  ShiftsConfig   `json:"shifts"`
	Metrics metrics.Config `json:"metrics"`
	Notify  notify.Config  `json:"notify"`
}

// ShiftsConfig locates the persisted shift table.
type ShiftsConfig struct {
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *ShiftsConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "data/shifts.json"
	}
}

// Load reads the configuration file and applies CS_-prefixed environment
// overrides.
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
	if err := k.Load(env.Provider("CS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Shifts.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Notify.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Notify.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
