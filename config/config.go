// Package config loads and saves libmoon's TOML configuration file,
// covering the execution, debugger, display, and trace sections.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every configurable knob of an interpreter run. None of
// these affect language semantics; they are ambient operational
// settings.
type Config struct {
	Execution struct {
		Sigil         string `toml:"sigil"`          // variable-reference sigil, default "&"
		MaxSteps      uint64 `toml:"max_steps"`      // 0 = unbounded
		EnableTrace   bool   `toml:"enable_trace"`
		CarryVariable string `toml:"carry_variable"` // reserved name, default "-"
	} `toml:"execution"`

	Debugger struct {
		HistorySize int  `toml:"history_size"`
		ShowStore   bool `toml:"show_store"`
	} `toml:"debugger"`

	Display struct {
		NumberFormat string `toml:"number_format"` // dec|hex for int cells
	} `toml:"display"`

	Trace struct {
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with an unbounded step budget,
// trace disabled, sigil '&', and carry name "-".
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.Sigil = "&"
	cfg.Execution.MaxSteps = 0
	cfg.Execution.EnableTrace = false
	cfg.Execution.CarryVariable = "-"

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowStore = true

	cfg.Display.NumberFormat = "dec"

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100000

	return cfg
}

// GetConfigPath returns the platform-specific config file path, rooted
// at a "libmoon" application directory.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "libmoon")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "libmoon")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log/trace directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "libmoon", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "libmoon", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SigilByte returns the configured variable-reference sigil as a byte,
// or fallback if the configured string is not exactly one byte.
func (c *Config) SigilByte(fallback byte) byte {
	if len(c.Execution.Sigil) != 1 {
		return fallback
	}
	return c.Execution.Sigil[0]
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
