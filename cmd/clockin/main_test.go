package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hollowbeak/clockin/internal/config"
	"github.com/hollowbeak/clockin/internal/model"
)

func TestDefaultConfigTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if cfg.Server.URL != nil || cfg.Report.View != nil {
		t.Fatalf("expected every template value commented out, got %+v", cfg)
	}
}

func TestResolveServerURLPrecedence(t *testing.T) {
	fileURL := "http://file:1"
	fileCfg := config.FileConfig{}
	fileCfg.Server.URL = &fileURL

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(serverEnvVar, "http://env:1")
		cmd := newRootCmd()
		if err := cmd.ParseFlags([]string{"--server", "http://flag:1"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		if got := resolveServerURL(cmd, fileCfg); got != "http://flag:1" {
			t.Fatalf("expected flag value, got %q", got)
		}
	})

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv(serverEnvVar, "http://env:1")
		cmd := newRootCmd()
		if got := resolveServerURL(cmd, fileCfg); got != "http://env:1" {
			t.Fatalf("expected env value, got %q", got)
		}
	})

	t.Run("file beats default", func(t *testing.T) {
		t.Setenv(serverEnvVar, "")
		cmd := newRootCmd()
		if got := resolveServerURL(cmd, fileCfg); got != "http://file:1" {
			t.Fatalf("expected file value, got %q", got)
		}
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(serverEnvVar, "")
		cmd := newRootCmd()
		if got := resolveServerURL(cmd, config.FileConfig{}); got != defaultServerURL {
			t.Fatalf("expected default, got %q", got)
		}
	})
}

func TestValidateServerURL(t *testing.T) {
	good := []string{"http://localhost:8000", "https://tracker.example.com", "http://10.0.0.2:9000"}
	for _, raw := range good {
		if err := validateServerURL(raw); err != nil {
			t.Fatalf("expected %q to validate, got %v", raw, err)
		}
	}
	bad := []string{"", "localhost:8000", "ftp://tracker", "http://"}
	for _, raw := range bad {
		if err := validateServerURL(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestResolveReportView(t *testing.T) {
	reset := func() { reportDaily, reportDetail, reportDist = false, false, false }
	t.Cleanup(reset)

	reset()
	reportDist = true
	view, err := resolveReportView(config.FileConfig{})
	if err != nil || view != model.ViewDist {
		t.Fatalf("expected dist view, got %v (%v)", view, err)
	}

	reset()
	name := "daily"
	fileCfg := config.FileConfig{}
	fileCfg.Report.View = &name
	view, err = resolveReportView(fileCfg)
	if err != nil || view != model.ViewDaily {
		t.Fatalf("expected config view, got %v (%v)", view, err)
	}

	reset()
	view, err = resolveReportView(config.FileConfig{})
	if err != nil || view != model.ViewDailyDetail {
		t.Fatalf("expected default view, got %v (%v)", view, err)
	}

	reset()
	bogus := "weekly"
	fileCfg.Report.View = &bogus
	if _, err := resolveReportView(fileCfg); err == nil {
		t.Fatalf("expected error for unknown view name")
	}
}
