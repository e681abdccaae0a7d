// Package config loads the host configuration used by the menuopts CLI and
// by servers embedding the option service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-menuopts/pkg/registry"
)

// DefaultCacheDir is the directory under ConfigRoot holding registry files.
const DefaultCacheDir = "MenuOptsCache"

// Rule engines accepted by Rules.Engine.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Config is the host configuration.
type Config struct {
	ConfigRoot    string `yaml:"config_root"`
	CacheDir      string `yaml:"cache_dir"`
	Port          int    `yaml:"port"`
	Debug         bool   `yaml:"debug"`
	WatchRegistry bool   `yaml:"watch_registry"`

	Activity ActivityConfig `yaml:"activity"`
	Rules    RulesConfig    `yaml:"rules"`
}

// ActivityConfig controls lifecycle event emission.
type ActivityConfig struct {
	Enabled bool   `yaml:"enabled"`
	Channel string `yaml:"channel"`
}

// RulesConfig selects the predicate rule engine.
type RulesConfig struct {
	Engine string `yaml:"engine"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ConfigRoot: ".",
		CacheDir:   DefaultCacheDir,
		Port:       7777,
		Activity: ActivityConfig{
			Enabled: true,
			Channel: "menuopts",
		},
		Rules: RulesConfig{
			Engine: EngineExpr,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.CacheDir) == "" {
		errs = append(errs, errors.New("cache_dir must not be empty"))
	}
	switch c.Rules.Engine {
	case EngineExpr, EngineCEL, EngineJS:
	default:
		errs = append(errs, fmt.Errorf("rules.engine %q must be one of expr, cel, js", c.Rules.Engine))
	}
	return errors.Join(errs...)
}

// RegistryPath is the identifier registry file for the configured port.
func (c Config) RegistryPath() string {
	return registry.PathFor(c.ConfigRoot, c.CacheDir, c.Port)
}
