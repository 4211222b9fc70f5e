package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewHasDefaults(t *testing.T) {
	cfg := New()

	if cfg.Dev.Host != DefaultHost {
		t.Errorf("expected host %q, got %q", DefaultHost, cfg.Dev.Host)
	}
	if cfg.Dev.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Dev.Port)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled by default")
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected namespace %q, got %q", DefaultMetricsNamespace, cfg.Metrics.Namespace)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := New()
	cfg.Name = "demo"
	cfg.Dev.Port = 9000
	cfg.Snapshot.Bucket = "weft-snapshots"

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists(dir) {
		t.Fatal("Exists should report the saved file")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "demo" {
		t.Errorf("expected name %q, got %q", "demo", loaded.Name)
	}
	if loaded.Dev.Port != 9000 {
		t.Errorf("expected port 9000, got %d", loaded.Dev.Port)
	}
	if loaded.Snapshot.Bucket != "weft-snapshots" {
		t.Errorf("expected bucket, got %q", loaded.Snapshot.Bucket)
	}
	if loaded.Path() != path {
		t.Errorf("expected path %q, got %q", path, loaded.Path())
	}
	// Defaults fill fields the file omitted.
	if loaded.Dev.Host != DefaultHost {
		t.Errorf("expected default host, got %q", loaded.Dev.Host)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing weft.json")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dev.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Dev.Port)
	}
}

func TestLoadInvalidJSONFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadOrDefault(dir); err == nil {
		t.Fatal("LoadOrDefault must still report parse errors")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"negative port", func(c *Config) { c.Dev.Port = -1 }, true},
		{"port too large", func(c *Config) { c.Dev.Port = 70000 }, true},
		{"negative depth", func(c *Config) { c.Dev.MaxUpdateDepth = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "0.0.0.0"
	cfg.Dev.Port = 8080

	if got := cfg.DevAddress(); got != "0.0.0.0:8080" {
		t.Errorf("expected 0.0.0.0:8080, got %q", got)
	}
}
