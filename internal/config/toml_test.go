package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Server.URL != nil || cfg.Report.View != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[server]\nurl = \"http://tracker.local:9000\"\n\n[report]\nview = \"daily\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.URL == nil || *cfg.Server.URL != "http://tracker.local:9000" {
		t.Fatalf("unexpected server url: %+v", cfg.Server.URL)
	}
	if cfg.Report.View == nil || *cfg.Report.View != "daily" {
		t.Fatalf("unexpected report view: %+v", cfg.Report.View)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
