// Package config loads urlnorm settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"urlnorm/internal/urlnorm"
)

const defaultWorkers = 8

// Config is the top-level configuration.
type Config struct {
	Normalize NormalizeConfig `yaml:"normalize"`
	Dedup     DedupConfig     `yaml:"dedup"`
	Log       LogConfig       `yaml:"log"`
}

// NormalizeConfig mirrors urlnorm.Options.
type NormalizeConfig struct {
	ExtraQueryArgs    []urlnorm.QueryArg `yaml:"extra_query_args"`
	KeepFragments     bool               `yaml:"keep_fragments"`
	KeepBlankValues   bool               `yaml:"keep_blank_values"`
	StrictQuery       bool               `yaml:"strict_query"`
	KeepTrailingSlash bool               `yaml:"keep_trailing_slash"`
}

// DedupConfig controls bulk runs.
type DedupConfig struct {
	Workers           int      `yaml:"workers"`
	CachePath         string   `yaml:"cache_path"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	HTML              bool     `yaml:"html"`
	BaseURL           string   `yaml:"base_url"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file. An empty path yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadEnv loads variables from the given .env files, or ./.env when none
// are named. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Dedup.Workers <= 0 {
		c.Dedup.Workers = defaultWorkers
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// NormalizeOptions converts the normalize section to urlnorm.Options.
func (c *Config) NormalizeOptions() urlnorm.Options {
	return urlnorm.Options{
		ExtraQueryArgs:    append([]urlnorm.QueryArg(nil), c.Normalize.ExtraQueryArgs...),
		KeepFragments:     c.Normalize.KeepFragments,
		KeepBlankValues:   c.Normalize.KeepBlankValues,
		StrictQuery:       c.Normalize.StrictQuery,
		KeepTrailingSlash: c.Normalize.KeepTrailingSlash,
	}
}
