package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const appName = "evtrack"

// Environment variables holding the remote store credentials.
const (
	EnvSupabaseURL = "EVTRACK_SUPABASE_URL"
	EnvSupabaseKey = "EVTRACK_SUPABASE_KEY"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultEnvPaths lists the .env files LoadEnv reads, most specific first.
func DefaultEnvPaths() []string {
	return []string{".env", filepath.Join(XDGConfigHome(), appName, ".env")}
}

// LoadEnv loads KEY=VALUE files into the process environment. Variables that
// are already set win, missing files are skipped.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// Credentials holds the remote store secrets.
type Credentials struct {
	URL string
	Key string
}

// SupabaseCredentials reads the remote store secrets from the environment.
// A non-empty urlOverride (from the config file) replaces the URL variable.
func SupabaseCredentials(urlOverride string) Credentials {
	url := strings.TrimSpace(urlOverride)
	if url == "" {
		url = strings.TrimSpace(os.Getenv(EnvSupabaseURL))
	}
	return Credentials{URL: url, Key: strings.TrimSpace(os.Getenv(EnvSupabaseKey))}
}
