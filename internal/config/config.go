package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDir       = ".gridsel"
	configFile      = "config.json"
	keybindingsFile = "keybindings.json"
)

// yamlFiles override config.json when present, first match wins
var yamlFiles = []string{"config.yaml", "config.yml"}

const (
	DefaultScrollback      = 1000
	MaxScrollback          = 100000
	DefaultDoubleClickMS   = 400
	DefaultToastSeconds    = 3
	DefaultTimestampFormat = "15:04:05"
)

// KeyBindings stores all configurable key bindings
type KeyBindings struct {
	// Navigation
	ScrollUp   string `json:"scroll_up" yaml:"scroll_up"`
	ScrollDown string `json:"scroll_down" yaml:"scroll_down"`
	PageUp     string `json:"page_up" yaml:"page_up"`
	PageDown   string `json:"page_down" yaml:"page_down"`
	Top        string `json:"top" yaml:"top"`
	Bottom     string `json:"bottom" yaml:"bottom"`

	// Selection
	SelectAll      string `json:"select_all" yaml:"select_all"`
	Copy           string `json:"copy" yaml:"copy"`
	ClearSelection string `json:"clear_selection" yaml:"clear_selection"`

	// General
	ClearLogs   string `json:"clear_logs" yaml:"clear_logs"`
	Pause       string `json:"pause" yaml:"pause"`
	DebugToggle string `json:"debug_toggle" yaml:"debug_toggle"`
	Quit        string `json:"quit" yaml:"quit"`
}

// DefaultKeyBindings returns the default key bindings
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		ScrollUp:   "up,k",
		ScrollDown: "down,j",
		PageUp:     "pgup,ctrl+u",
		PageDown:   "pgdown,ctrl+d",
		Top:        "home,g",
		Bottom:     "end,G",

		SelectAll:      "ctrl+a,a",
		Copy:           "y,c",
		ClearSelection: "esc",

		ClearLogs:   "x",
		Pause:       "p,space",
		DebugToggle: "D",
		Quit:        "q,ctrl+c",
	}
}

// withDefaults fills empty bindings from the defaults
func (kb KeyBindings) withDefaults() KeyBindings {
	def := DefaultKeyBindings()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&kb.ScrollUp, def.ScrollUp)
	fill(&kb.ScrollDown, def.ScrollDown)
	fill(&kb.PageUp, def.PageUp)
	fill(&kb.PageDown, def.PageDown)
	fill(&kb.Top, def.Top)
	fill(&kb.Bottom, def.Bottom)
	fill(&kb.SelectAll, def.SelectAll)
	fill(&kb.Copy, def.Copy)
	fill(&kb.ClearSelection, def.ClearSelection)
	fill(&kb.ClearLogs, def.ClearLogs)
	fill(&kb.Pause, def.Pause)
	fill(&kb.DebugToggle, def.DebugToggle)
	fill(&kb.Quit, def.Quit)
	return kb
}

// Config represents the application configuration
type Config struct {
	Scrollback      int    `json:"scrollback" yaml:"scrollback"`             // Rows kept before trimming from the top
	Width           int    `json:"width" yaml:"width"`                       // Grid width in columns, 0 = pane width
	DoubleClickMS   int    `json:"double_click_ms" yaml:"double_click_ms"`   // Multi-click threshold
	ToastSeconds    int    `json:"toast_seconds" yaml:"toast_seconds"`       // Toast duration (1-10)
	TimestampFormat string `json:"timestamp_format" yaml:"timestamp_format"` // Go time layout, "-" disables
	Debug           bool   `json:"debug" yaml:"debug"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Scrollback:      DefaultScrollback,
		DoubleClickMS:   DefaultDoubleClickMS,
		ToastSeconds:    DefaultToastSeconds,
		TimestampFormat: DefaultTimestampFormat,
	}
}

// GetScrollback returns the scrollback cap, ensuring it's within valid range
func (c Config) GetScrollback() int {
	if c.Scrollback < 1 {
		return DefaultScrollback
	}
	if c.Scrollback > MaxScrollback {
		return MaxScrollback
	}
	return c.Scrollback
}

// GetDoubleClickMS returns the multi-click threshold in milliseconds
func (c Config) GetDoubleClickMS() int {
	if c.DoubleClickMS < 50 || c.DoubleClickMS > 2000 {
		return DefaultDoubleClickMS
	}
	return c.DoubleClickMS
}

// GetToastSeconds returns the toast duration, ensuring it's within valid range
func (c Config) GetToastSeconds() int {
	if c.ToastSeconds < 1 {
		return DefaultToastSeconds
	}
	if c.ToastSeconds > 10 {
		return 10
	}
	return c.ToastSeconds
}

// GetTimestampFormat returns the timestamp layout, empty when disabled
func (c Config) GetTimestampFormat() string {
	switch c.TimestampFormat {
	case "":
		return DefaultTimestampFormat
	case "-":
		return ""
	default:
		return c.TimestampFormat
	}
}

// Dir returns the configuration directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// GetConfigPath returns the full path to the JSON config file
func GetConfigPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// GetKeybindingsPath returns the full path to the keybindings file
func GetKeybindingsPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, keybindingsFile)
}

// Load loads the config from disk. A YAML config in the same directory wins
// over config.json. Missing files yield the defaults.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	for _, name := range yamlFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return &cfg, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save saves the config to config.json
func (c *Config) Save() error {
	return writeJSON(GetConfigPath(), c)
}

// LoadKeyBindings loads key bindings from the keybindings file
func LoadKeyBindings() KeyBindings {
	data, err := os.ReadFile(GetKeybindingsPath())
	if err != nil {
		return DefaultKeyBindings()
	}

	var kb KeyBindings
	if err := json.Unmarshal(data, &kb); err != nil {
		return DefaultKeyBindings()
	}

	return kb.withDefaults()
}

// SaveKeyBindings saves key bindings to the keybindings file
func SaveKeyBindings(kb KeyBindings) error {
	return writeJSON(GetKeybindingsPath(), kb)
}

func writeJSON(path string, v interface{}) error {
	if path == "" {
		return fmt.Errorf("config directory unavailable")
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDefaults writes default config and keybindings files if missing
func EnsureDefaults() error {
	if _, err := os.Stat(GetConfigPath()); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(GetKeybindingsPath()); os.IsNotExist(err) {
		if err := SaveKeyBindings(DefaultKeyBindings()); err != nil {
			return err
		}
	}

	return nil
}
