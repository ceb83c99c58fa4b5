// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	App    AppConfig    `toml:"app"`
	Search SearchConfig `toml:"search"`
	Remote RemoteConfig `toml:"remote"`
}

// AppConfig maps general settings.
type AppConfig struct {
	Lang       *string `toml:"lang"`
	LessonsDir *string `toml:"lessons-dir"`
}

// SearchConfig maps lesson search settings.
type SearchConfig struct {
	Threshold  *float64 `toml:"threshold"`
	DebounceMs *int     `toml:"debounce-ms"`
}

// RemoteConfig maps the remote lesson store settings.
type RemoteConfig struct {
	Enabled         *bool   `toml:"enabled"`
	ProjectID       *string `toml:"project-id"`
	CredentialsFile *string `toml:"credentials-file"`
	TimeoutMs       *int    `toml:"timeout-ms"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
