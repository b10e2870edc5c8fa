// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
	Log  LogConfig  `toml:"log"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Duration *float64 `toml:"duration"`
	Words    *int     `toml:"words"`
	Seed     *int64   `toml:"seed"`
}

// LogConfig maps log rotation settings.
type LogConfig struct {
	MaxSizeMB  *int  `toml:"max-size-mb"`
	MaxBackups *int  `toml:"max-backups"`
	MaxAgeDays *int  `toml:"max-age-days"`
	Compress   *bool `toml:"compress"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
