package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store.Backend != nil || cfg.Dashboard.Years != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[store]
backend = "supabase"
supabase-url = "https://example.supabase.co"
table = "migraine"

[dashboard]
years = "recent:2"
default-name = "Migräne"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store.Backend == nil || *cfg.Store.Backend != BackendSupabase {
		t.Fatalf("unexpected backend: %v", cfg.Store.Backend)
	}
	if cfg.Store.Path != nil {
		t.Fatalf("expected unset path, got %q", *cfg.Store.Path)
	}
	if cfg.Store.Table == nil || *cfg.Store.Table != "migraine" {
		t.Fatalf("unexpected table: %v", cfg.Store.Table)
	}
	if cfg.Dashboard.Years == nil || *cfg.Dashboard.Years != "recent:2" {
		t.Fatalf("unexpected years: %v", cfg.Dashboard.Years)
	}
	if cfg.Dashboard.DefaultName == nil || *cfg.Dashboard.DefaultName != "Migräne" {
		t.Fatalf("unexpected default name: %v", cfg.Dashboard.DefaultName)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"postgres\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[dashboard]\nyear = \"all\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "dashboard.year") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultTemplateDecodes(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(DefaultTemplate("recent:3", "Kopfschmerzen")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Store.Backend != nil {
		t.Fatalf("template values should be commented out")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "evtrack", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "evtrack", "evtrack.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}

func TestLoadEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	data := EnvSupabaseURL + "=https://from-file.supabase.co\n" + EnvSupabaseKey + "=file-key\n"
	if err := os.WriteFile(envPath, []byte(data), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvSupabaseURL, "")
	t.Setenv(EnvSupabaseKey, "already-set")
	if err := os.Unsetenv(EnvSupabaseURL); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if err := LoadEnv(filepath.Join(dir, "missing.env"), envPath); err != nil {
		t.Fatalf("load env: %v", err)
	}
	creds := SupabaseCredentials("")
	if creds.URL != "https://from-file.supabase.co" {
		t.Fatalf("unexpected url: %q", creds.URL)
	}
	if creds.Key != "already-set" {
		t.Fatalf("unexpected key: %q", creds.Key)
	}
	if got := SupabaseCredentials(" https://override.supabase.co ").URL; got != "https://override.supabase.co" {
		t.Fatalf("unexpected override url: %q", got)
	}
}
