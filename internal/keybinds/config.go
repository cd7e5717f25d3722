package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// ConfigVersion is written by SaveConfig
const ConfigVersion = "1.0"

// Config represents the user's keybinding configuration. Each section
// maps a key to an action name; "noop" unbinds a default.
type Config struct {
	Version string                       `json:"version"`
	Global  map[string]string            `json:"global,omitempty"`
	Browse  map[string]string            `json:"browse,omitempty"`
	Search  map[string]string            `json:"search,omitempty"`
	Capture map[string]string            `json:"capture,omitempty"`
	Custom  map[string]map[string]string `json:"custom,omitempty"`
}

// LoadConfig loads keybinding configuration from a JSON file.
// Comments and trailing commas are allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// sections maps config sections to contexts
func (c *Config) sections() map[Context]map[string]string {
	out := map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextBrowse:  c.Browse,
		ContextSearch:  c.Search,
		ContextCapture: c.Capture,
	}
	for name, bindings := range c.Custom {
		out[Context(name)] = bindings
	}
	return out
}

// ApplyConfig applies user configuration to a registry
// User bindings override default bindings
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for key, actionStr := range bindings {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("context '%s': %w", context, err)
			}
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("context '%s', key '%s': %w", context, key, err)
			}
			registry.Register(context, key, Action(actionStr))
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportRegistry converts a registry into a config file, so users can see
// everything that can be customized
func ExportRegistry(r *Registry) *Config {
	config := &Config{Version: ConfigVersion}
	for _, context := range r.Contexts() {
		section := make(map[string]string)
		for _, b := range r.contextBindings(context) {
			section[b.Key] = string(b.Action)
		}
		switch context {
		case ContextGlobal:
			config.Global = section
		case ContextBrowse:
			config.Browse = section
		case ContextSearch:
			config.Search = section
		case ContextCapture:
			config.Capture = section
		default:
			if config.Custom == nil {
				config.Custom = make(map[string]map[string]string)
			}
			config.Custom[string(context)] = section
		}
	}
	return config
}

// CreateExampleConfig writes the default bindings to path
func CreateExampleConfig(path string) error {
	return SaveConfig(ExportRegistry(NewDefaultRegistry()), path)
}
