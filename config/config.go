package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Hotkeys HotkeysConfig `toml:"hotkeys"`
	MIDI    MIDIConfig    `toml:"midi"`
	Web     WebConfig     `toml:"web"`
	Cleanup CleanupConfig `toml:"cleanup"`
}

type HotkeysConfig struct {
	// Modifier chords combined with the digit keys 1..0 for the ten slots,
	// e.g. "ctrl+alt" makes ctrl+alt+3 copy into slot 3.
	CopyModifiers  string `toml:"copy_modifiers"`
	PasteModifiers string `toml:"paste_modifiers"`
}

type MIDIConfig struct {
	Enabled bool `toml:"enabled"`
	// Port is matched as a substring against available input port names.
	Port     string `toml:"port"`
	BaseNote int    `toml:"base_note"`
	// PasteOffset is added to BaseNote for the paste bank of notes.
	PasteOffset int `toml:"paste_offset"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type CleanupConfig struct {
	// IntervalMs is how often the stuck-modifier safety net runs.
	IntervalMs int `toml:"interval_ms"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		Hotkeys: HotkeysConfig{
			CopyModifiers:  "ctrl+alt",
			PasteModifiers: "ctrl+shift",
		},
		MIDI: MIDIConfig{
			Enabled:     false,
			Port:        "",
			BaseNote:    36,
			PasteOffset: 16,
		},
		Web: WebConfig{
			Enabled: true,
			Port:    8731,
		},
		Cleanup: CleanupConfig{
			IntervalMs: 500,
		},
	}
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
	}

	configDir := filepath.Join(appData, "clipdeck")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the TOML file
// If the file doesn't exist, it creates it with default values
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Load existing config
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the TOML file
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Modifiers represents a parsed modifier chord
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Win   bool
}

// ParseModifiers parses a modifier chord string like "ctrl+alt"
func ParseModifiers(chord string) (Modifiers, error) {
	var m Modifiers

	parts := strings.Split(strings.ToLower(chord), "+")
	for _, part := range parts {
		switch strings.TrimSpace(part) {
		case "ctrl", "control":
			m.Ctrl = true
		case "shift":
			m.Shift = true
		case "alt":
			m.Alt = true
		case "win", "windows":
			m.Win = true
		case "":
			return m, fmt.Errorf("empty modifier in chord %q", chord)
		default:
			return m, fmt.Errorf("unknown modifier: %s", part)
		}
	}

	if m == (Modifiers{}) {
		return m, fmt.Errorf("no modifiers specified in chord %q", chord)
	}

	return m, nil
}
