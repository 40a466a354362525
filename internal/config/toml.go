// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Store     StoreConfig     `toml:"store"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Log       LogConfig       `toml:"log"`
}

// StoreConfig selects and locates the event store.
type StoreConfig struct {
	Backend     *string `toml:"backend"`
	Path        *string `toml:"path"`
	SupabaseURL *string `toml:"supabase-url"`
	Table       *string `toml:"table"`
}

// DashboardConfig maps dashboard and report defaults.
type DashboardConfig struct {
	Years       *string `toml:"years"`
	DefaultName *string `toml:"default-name"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
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
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if cfg.Store.Backend != nil {
		if err := ValidateBackend(*cfg.Store.Backend); err != nil {
			return FileConfig{}, err
		}
	}
	return cfg, nil
}

// ValidateBackend checks a store backend name.
func ValidateBackend(backend string) error {
	switch backend {
	case BackendSQLite, BackendSupabase:
		return nil
	}
	return fmt.Errorf("unknown store backend %q (want %q or %q)", backend, BackendSQLite, BackendSupabase)
}

// DefaultTemplate is written by `evtrack config` when no file exists yet.
func DefaultTemplate(defaultYears, defaultName string) string {
	return fmt.Sprintf(`# evtrack configuration
# Uncomment a value to enable it. CLI flags override config values.
# Supabase credentials are read from EVTRACK_SUPABASE_URL and
# EVTRACK_SUPABASE_KEY (a .env file next to this config is loaded too).

[store]
# backend = %q          # %q or %q
# path = %q             # SQLite database path
# supabase-url = ""     # Overrides EVTRACK_SUPABASE_URL
# table = "events"      # Remote table name

[dashboard]
# years = %q            # all, recent:N, 2022-2024 or 2022,2024
# default-name = %q     # Name used when an entry has none

[log]
# level = "info"        # debug, info, warn or error
`,
		BackendSQLite, BackendSQLite, BackendSupabase,
		DefaultDBPath(),
		defaultYears,
		defaultName,
	)
}
