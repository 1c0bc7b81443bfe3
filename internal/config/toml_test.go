package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be fine, got %v", err)
	}
	if cfg.Engine.CacheEntries != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigResolvesEngineSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[engine]
history-words = 50
cache-entries = 200
max-users = 0

[demo]
user = "alice"
suggestions = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	engine := cfg.EngineConfig()
	if engine.HistoryWords != 50 {
		t.Fatalf("expected history-words 50, got %d", engine.HistoryWords)
	}
	if engine.CacheEntries != 200 {
		t.Fatalf("expected cache-entries 200, got %d", engine.CacheEntries)
	}
	if engine.MaxUsers != 0 {
		t.Fatalf("expected explicit max-users 0, got %d", engine.MaxUsers)
	}
	// Unset values keep their defaults.
	if engine.SpeedSamples != 10 || engine.KeyTailRunes != 20 || engine.DefaultLimit != 5 {
		t.Fatalf("expected defaults for unset fields, got %+v", engine)
	}
	if cfg.Demo.User == nil || *cfg.Demo.User != "alice" {
		t.Fatalf("expected demo user alice, got %+v", cfg.Demo)
	}
	if cfg.Demo.Suggestions == nil || *cfg.Demo.Suggestions != 3 {
		t.Fatalf("expected demo suggestions 3, got %+v", cfg.Demo)
	}
}

func TestEngineConfigDefaultsWhenEmpty(t *testing.T) {
	var cfg FileConfig
	engine := cfg.EngineConfig()
	if engine.HistoryWords != 100 || engine.CacheEntries != 1000 || engine.EvictBatch != 100 {
		t.Fatalf("expected stock defaults, got %+v", engine)
	}
}
