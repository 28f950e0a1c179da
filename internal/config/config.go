// Package config loads and persists the application's small YAML
// configuration document: the chosen data directory, the log level,
// and the month stamp of the last backup/export reminder.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DBFileName is the store file inside the data directory.
const DBFileName = "inspection.db"

// Config defines the persisted configuration document.
type Config struct {
	DataDir           string    `yaml:"data_dir"`
	Log               LogConfig `yaml:"log"`
	LastReminderMonth string    `yaml:"last_reminder_month,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// File is a loaded configuration bound to its path on disk.
type File struct {
	Config
	path string
}

// Load reads configuration from the config file and environment
// variables, then resolves a usable data directory: the configured
// directory if writable, else the default (persisting that choice).
// When neither is writable the configured path is kept so the caller
// fails with an explicit storage error rather than a silent fallback.
func Load() (*File, error) {
	path := os.Getenv("TENKEN_CONFIG_PATH")
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base, err = os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve config dir: %w", err)
			}
		}
		path = filepath.Join(base, "tenken", "config.yaml")
	}

	f := &File{
		Config: Config{
			Log: LogConfig{Level: "info"},
		},
		path: path,
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &f.Config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	defaultDir := filepath.Join(filepath.Dir(path), "data")
	if dir := os.Getenv("TENKEN_DATA_DIR"); dir != "" {
		defaultDir = dir
	}
	if level := os.Getenv("TENKEN_LOG_LEVEL"); level != "" {
		f.Log.Level = level
	}

	f.DataDir = resolveDataDir(f, f.DataDir, defaultDir)

	return f, nil
}

// Path returns the location of the config file.
func (f *File) Path() string {
	return f.path
}

// DBPath returns the store file location inside the data directory.
func (f *File) DBPath() string {
	return filepath.Join(f.DataDir, DBFileName)
}

// Save writes the document back to its file.
func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(f.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LastReminderMonth returns the month stamp of the last fired
// backup/export reminder, or empty if it never fired.
func (f *File) LastReminderMonth() string {
	return f.Config.LastReminderMonth
}

// SetLastReminderMonth persists the reminder month stamp.
func (f *File) SetLastReminderMonth(month string) error {
	f.Config.LastReminderMonth = month
	return f.Save()
}

func resolveDataDir(f *File, configured, fallback string) string {
	if configured != "" && canUseDir(configured) {
		return configured
	}
	if canUseDir(fallback) {
		if configured != fallback {
			f.Config.DataDir = fallback
			// Best effort; a failed save just re-resolves next start.
			_ = f.Save()
		}
		return fallback
	}
	if configured != "" {
		return configured
	}
	return fallback
}

// canUseDir verifies the directory exists (creating it if needed) and
// accepts a write, the only reliable writability probe across network
// shares.
func canUseDir(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return false
	}
	os.Remove(probe)
	return true
}
