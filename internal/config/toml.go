// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server     ServerConfig     `toml:"server"`
	Store      StoreConfig      `toml:"store"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Drill      DrillConfig      `toml:"drill"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr      *string `toml:"addr"`
	StaticDir *string `toml:"static-dir"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// CatalogConfig points at an optional lesson catalog file.
type CatalogConfig struct {
	Path *string `toml:"path"`
}

// DrillConfig maps drill settings.
type DrillConfig struct {
	AnswerMode *string `toml:"answer-mode"`
	Profile    *string `toml:"profile"`
}

// DictionaryConfig maps dictionary lookup settings. TTL is a Go duration string.
type DictionaryConfig struct {
	URL       *string `toml:"url"`
	TTL       *string `toml:"ttl"`
	CacheSize *int    `toml:"cache-size"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Env *string `toml:"env"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
