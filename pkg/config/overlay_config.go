package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUpdateIntervalMs is how often the state store is polled.
	DefaultUpdateIntervalMs = 5000
	// MinUpdateIntervalMs is the floor applied to update_interval_ms.
	MinUpdateIntervalMs = 500
	// DefaultTestPassthrough is the test entity state that means "use the
	// real weather entity".
	DefaultTestPassthrough = "Use Real Weather"
	// DefaultZIndex keeps the overlay above everything else.
	DefaultZIndex = 9999
	// DefaultPointerEvents lets input fall through the overlay.
	DefaultPointerEvents = "none"

	DefaultWindowWidth   = 1280
	DefaultWindowHeight  = 720
	DefaultThunderVolume = 0.6

	// TokenEnv is read when hass.token is empty.
	TokenEnv = "HASS_TOKEN"
)

// ErrMissingWeatherEntity is returned when weather_entity is not configured.
// It is the only fatal configuration error: the overlay never activates
// without it.
var ErrMissingWeatherEntity = errors.New("weather_entity is required")

// OverlayConfig is the on-disk configuration of the overlay.
type OverlayConfig struct {
	WeatherEntity    string                   `yaml:"weather_entity"`
	ToggleEntity     string                   `yaml:"toggle_entity"`
	TestEntity       string                   `yaml:"test_entity"`
	TestPassthrough  string                   `yaml:"test_passthrough"`
	UpdateIntervalMs int                      `yaml:"update_interval_ms"`
	ZIndex           *int                     `yaml:"z_index"`
	PointerEvents    string                   `yaml:"pointer_events"`
	StateMap         map[string]string        `yaml:"state_map"`
	Effects          map[string]EffectProfile `yaml:"effects"`

	// StateFile switches the state store from Home Assistant to a local YAML
	// file of "entity_id: state" pairs.
	StateFile string        `yaml:"state_file"`
	Hass      HassConfig    `yaml:"hass"`
	Thunder   ThunderConfig `yaml:"thunder"`
	Window    WindowConfig  `yaml:"window"`
}

// HassConfig locates the Home Assistant REST API.
type HassConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// ThunderConfig holds the defaults for the thunder rumble. The user can
// toggle it at runtime; that choice lives in settings.
type ThunderConfig struct {
	Enabled *bool   `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// WindowConfig sizes the desktop window when not fullscreen.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
}

// Stacking returns z_index. An explicit 0 is kept.
func (c *OverlayConfig) Stacking() int {
	if c.ZIndex == nil {
		return DefaultZIndex
	}
	return *c.ZIndex
}

// ThunderEnabled reports the configured default, true when unset.
func (c *OverlayConfig) ThunderEnabled() bool {
	return c.Thunder.Enabled == nil || *c.Thunder.Enabled
}

// LoadOverlayConfig reads, defaults and validates a YAML config file.
func LoadOverlayConfig(path string) (*OverlayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay config file %s: %w", path, err)
	}

	cfg, err := ParseOverlayConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseOverlayConfig decodes a YAML document, then applies defaults and
// validates it.
func ParseOverlayConfig(data []byte) (*OverlayConfig, error) {
	var cfg OverlayConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse overlay config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateOverlayConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills optional fields and enforces the polling floor.
func applyDefaults(cfg *OverlayConfig) {
	if cfg.UpdateIntervalMs == 0 {
		cfg.UpdateIntervalMs = DefaultUpdateIntervalMs
	}
	if cfg.UpdateIntervalMs < MinUpdateIntervalMs {
		cfg.UpdateIntervalMs = MinUpdateIntervalMs
	}

	if cfg.TestPassthrough == "" {
		cfg.TestPassthrough = DefaultTestPassthrough
	}
	if cfg.ZIndex == nil {
		z := DefaultZIndex
		cfg.ZIndex = &z
	}
	if cfg.PointerEvents == "" {
		cfg.PointerEvents = DefaultPointerEvents
	}

	if cfg.Hass.Token == "" {
		cfg.Hass.Token = os.Getenv(TokenEnv)
	}

	if cfg.Thunder.Volume == 0 {
		cfg.Thunder.Volume = DefaultThunderVolume
	}
	if cfg.Window.Width == 0 {
		cfg.Window.Width = DefaultWindowWidth
	}
	if cfg.Window.Height == 0 {
		cfg.Window.Height = DefaultWindowHeight
	}
}

func validateOverlayConfig(cfg *OverlayConfig) error {
	if cfg.WeatherEntity == "" {
		return ErrMissingWeatherEntity
	}

	switch cfg.PointerEvents {
	case "none", "auto":
	default:
		return fmt.Errorf("pointer_events must be one of: none, auto, got %q", cfg.PointerEvents)
	}

	if cfg.StateFile == "" && cfg.Hass.URL == "" {
		return fmt.Errorf("either state_file or hass.url is required")
	}

	if cfg.Thunder.Volume < 0 || cfg.Thunder.Volume > 1 {
		return fmt.Errorf("thunder.volume must be between 0 and 1, got %v", cfg.Thunder.Volume)
	}

	for key, profile := range cfg.Effects {
		if err := profile.Validate(); err != nil {
			return fmt.Errorf("effects[%q]: %w", key, err)
		}
	}
	return nil
}

// Catalog returns the default catalog with this config's overrides applied.
func (c *OverlayConfig) Catalog() (Catalog, error) {
	return BuildCatalog(c.Effects)
}

// Mapper returns a state mapper with this config's aliases applied.
func (c *OverlayConfig) Mapper() *StateMapper {
	return NewStateMapper(c.StateMap)
}

// PreviewEntity is the weather entity of PreviewConfig.
const PreviewEntity = "weather.preview"

// PreviewConfig returns a defaulted config for showing a fixed effect
// without a config file. It names no state source; the caller supplies
// the states.
func PreviewConfig() *OverlayConfig {
	cfg := &OverlayConfig{WeatherEntity: PreviewEntity}
	applyDefaults(cfg)
	return cfg
}
