package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Settings holds persistent user preferences.
// Stored as JSON at $XDG_CONFIG_HOME/push-to-talk/config.json.
type Settings struct {
	DebounceMS        int    `koanf:"debounce_ms" json:"debounce_ms"`
	ShortcutsPath     string `koanf:"shortcuts_path" json:"shortcuts_path"`
	AutoStartListener *bool  `koanf:"auto_start_listener" json:"auto_start_listener"`
}

// StartListener resolves the pointer-for-default field: nil means true.
func (s Settings) StartListener() bool {
	return s.AutoStartListener == nil || *s.AutoStartListener
}

// defaultSettings returns factory defaults.
func defaultSettings() Settings {
	return Settings{
		DebounceMS:    200,
		ShortcutsPath: filepath.Join(xdg.ConfigHome, "push-to-talk", "shortcuts.json"),
	}
}

// ConfigService loads and saves user settings.
type ConfigService struct {
	path string
}

// NewConfigService creates a ConfigService pointing to the standard config path.
func NewConfigService() *ConfigService {
	return &ConfigService{
		path: filepath.Join(xdg.ConfigHome, "push-to-talk", "config.json"),
	}
}

// newConfigServiceAt creates a ConfigService with a custom path (tests only).
func newConfigServiceAt(path string) *ConfigService {
	return &ConfigService{path: path}
}

// Load reads settings from disk. Returns defaults if the file doesn't exist.
// If the file is corrupt it logs the error and writes fresh defaults. Zero
// fields are backfilled with defaults.
func (c *ConfigService) Load() Settings {
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		return defaultSettings()
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(c.path), kjson.Parser()); err != nil {
		log.Printf("config: parse error: %v — resetting to defaults", err)
		defaults := defaultSettings()
		_ = c.Save(defaults) // overwrite corrupt file
		return defaults
	}
	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		log.Printf("config: decode error: %v — using defaults", err)
		return defaultSettings()
	}

	d := defaultSettings()
	if s.DebounceMS <= 0 {
		s.DebounceMS = d.DebounceMS
	}
	if s.ShortcutsPath == "" {
		s.ShortcutsPath = d.ShortcutsPath
	}
	return s
}

// Save writes the settings to disk atomically (write to temp, then rename).
func (c *ConfigService) Save(s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(c.path, data)
}
