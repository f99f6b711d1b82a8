package config

import (
	"flag"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want 30s", cfg.WriteTimeout)
	}
	if cfg.ImportDir != filepath.Join(cfg.DataDir, "imports") {
		t.Errorf("ImportDir = %q, want under DataDir", cfg.ImportDir)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("NAMSA_DATA_DIR", "/tmp/namsa-data")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/namsa-data" {
		t.Errorf("DataDir = %q, want /tmp/namsa-data", cfg.DataDir)
	}
	if cfg.DBPath != filepath.Join("/tmp/namsa-data", "insights.db") {
		t.Errorf("DBPath = %q, want under DataDir", cfg.DBPath)
	}
	if cfg.ImportDir != filepath.Join("/tmp/namsa-data", "imports") {
		t.Errorf("ImportDir = %q, want under DataDir", cfg.ImportDir)
	}
}

func TestLoad_ImportDirEnv(t *testing.T) {
	t.Setenv("NAMSA_DATA_DIR", "/tmp/namsa-data")
	t.Setenv("NAMSA_IMPORT_DIR", "/srv/exports")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ImportDir != "/srv/exports" {
		t.Errorf("ImportDir = %q, want /srv/exports", cfg.ImportDir)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("NAMSA_IMPORT_DIR", "/srv/exports")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterServeFlags(fs)
	if err := fs.Parse([]string{
		"-port", "9999", "-import-dir", "/flag/exports", "-notify",
	}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.ImportDir != "/flag/exports" {
		t.Errorf("ImportDir = %q, want /flag/exports", cfg.ImportDir)
	}
	if !cfg.DesktopNotify {
		t.Error("DesktopNotify = false, want true")
	}
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterServeFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Port)
	}
}
