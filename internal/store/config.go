package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type GlobalConfig struct {
	// Drag tunes pointer reordering. Unset or non-positive values use the defaults.
	Drag *DragConfig `json:"drag,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`

	Log *LogConfig `json:"log,omitempty"`
}

type DragConfig struct {
	// ThresholdPx is how far the pointer must travel before a press becomes a drag.
	ThresholdPx float64 `json:"thresholdPx,omitempty"`
	// HysteresisPx widens the currently targeted drop zone.
	HysteresisPx float64 `json:"hysteresisPx,omitempty"`
	// ReachPx is how far outside the list a drop still counts.
	ReachPx float64 `json:"reachPx,omitempty"`
}

type TUIConfig struct {
	// Theme is "auto", "light" or "dark".
	Theme string `json:"theme,omitempty"`
	// DesktopNotify also sends save failures to the desktop notification daemon.
	DesktopNotify bool `json:"desktopNotify,omitempty"`
}

type LogConfig struct {
	Debug     bool `json:"debug,omitempty"`
	MaxSizeMB int  `json:"maxSizeMB,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.folderdeck).
	if v := strings.TrimSpace(os.Getenv("FOLDERDECK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename so a CLI write never tears a config the TUI is reading.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func (c *GlobalConfig) Theme() string {
	if c == nil || c.TUI == nil {
		return "auto"
	}
	switch t := strings.ToLower(strings.TrimSpace(c.TUI.Theme)); t {
	case "light", "dark":
		return t
	default:
		return "auto"
	}
}

func (c *GlobalConfig) DesktopNotify() bool {
	return c != nil && c.TUI != nil && c.TUI.DesktopNotify
}

func (c *GlobalConfig) LogDebug() bool {
	return c != nil && c.Log != nil && c.Log.Debug
}

func (c *GlobalConfig) LogMaxSizeMB() int {
	if c == nil || c.Log == nil || c.Log.MaxSizeMB <= 0 {
		return 10
	}
	return c.Log.MaxSizeMB
}
