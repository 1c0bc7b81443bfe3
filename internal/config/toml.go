// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ultrasecure/typeahead/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Engine EngineSection `toml:"engine"`
	Demo   DemoSection   `toml:"demo"`
}

// EngineSection maps prediction engine bounds. Unset values keep the
// stock defaults.
type EngineSection struct {
	HistoryWords *int `toml:"history-words"`
	SpeedSamples *int `toml:"speed-samples"`
	MaxUsers     *int `toml:"max-users"`
	CacheEntries *int `toml:"cache-entries"`
	EvictBatch   *int `toml:"evict-batch"`
	KeyTailRunes *int `toml:"key-tail-runes"`
	DefaultLimit *int `toml:"default-limit"`
}

// DemoSection maps demo composer settings.
type DemoSection struct {
	User        *string `toml:"user"`
	Suggestions *int    `toml:"suggestions"`
	Lang        *string `toml:"lang"`
	Warm        *int    `toml:"warm"`
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

// EngineConfig resolves the engine section over the stock defaults.
func (f FileConfig) EngineConfig() model.EngineConfig {
	cfg := model.DefaultEngineConfig()
	applyInt(&cfg.HistoryWords, f.Engine.HistoryWords)
	applyInt(&cfg.SpeedSamples, f.Engine.SpeedSamples)
	applyInt(&cfg.MaxUsers, f.Engine.MaxUsers)
	applyInt(&cfg.CacheEntries, f.Engine.CacheEntries)
	applyInt(&cfg.EvictBatch, f.Engine.EvictBatch)
	applyInt(&cfg.KeyTailRunes, f.Engine.KeyTailRunes)
	applyInt(&cfg.DefaultLimit, f.Engine.DefaultLimit)
	return cfg
}

func applyInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}
