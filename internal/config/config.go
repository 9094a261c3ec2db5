// Package config loads the static application configuration: where the
// workspace lives and where logs go. YAML file with env overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Dir is the workspace root (documents db, uploads, users file, log).
	Dir string    `yaml:"dir"`
	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	// File receives structured logs. The TUI owns the terminal, so there
	// is no console sink. Empty disables logging.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment
// variables. Resolution order: defaults, then file, then env.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("OBRALOG_CONFIG")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dir := os.Getenv("OBRALOG_DIR"); dir != "" {
		cfg.Dir = dir
	}
	if f := os.Getenv("OBRALOG_LOG"); f != "" {
		cfg.Log.File = f
	}
	if lvl := os.Getenv("OBRALOG_LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}

	if cfg.Log.File == "" && cfg.Dir != "" {
		cfg.Log.File = filepath.Join(cfg.Dir, "obralog.log")
	}
	return cfg, nil
}

func defaults() Config {
	dir := ".obralog"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".obralog")
	}
	return Config{
		Dir: dir,
		Log: LogConfig{Level: "info"},
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
