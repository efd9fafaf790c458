// Package config handles configuration loading and cart home resolution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCartKey is the storage slot holding the serialized cart.
const DefaultCartKey = "@GoMarktplace:products"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StorageConfig selects and configures the key/value backend.
type StorageConfig struct {
	Backend   string `yaml:"backend"` // "sqlite" | "redis" | "memory"
	Key       string `yaml:"key"`
	Path      string `yaml:"path"` // sqlite file, relative to the cart home
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "text" | "json"
}

// CartConfig is the root per-home configuration.
type CartConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns a CartConfig populated with sensible defaults.
func Default() *CartConfig {
	return &CartConfig{
		Storage: StorageConfig{
			Backend:   "sqlite",
			Key:       DefaultCartKey,
			Path:      "cart.db",
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*CartConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		if v, ok := st["backend"].(string); ok && v != "" {
			cfg.Storage.Backend = strings.ToLower(v)
		}
		if v, ok := st["key"].(string); ok && v != "" {
			cfg.Storage.Key = v
		}
		if v, ok := st["path"].(string); ok && v != "" {
			cfg.Storage.Path = v
		}
		if v, ok := st["redis_addr"].(string); ok && v != "" {
			cfg.Storage.RedisAddr = v
		}
		if v, ok := st["redis_db"].(int); ok {
			cfg.Storage.RedisDB = v
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
		if v, ok := lg["format"].(string); ok && v != "" {
			cfg.Log.Format = v
		}
	}

	return cfg, nil
}

// ---------------------------------------------------------------------------
// Cart home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global config file, which
// stores only cart_home.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gomarketplace", "config.yaml"), nil
}

// normalizePath expands ~ and environment variables and makes the path
// absolute.
func normalizePath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}

// ResolveCartHome returns the cart home path and where it came from.
// Priority: CART_HOME env → persisted global config → ~/.gomarketplace.
// source is one of "env", "config", or "default". An unreadable global
// config is skipped.
func ResolveCartHome() (path, source string) {
	if env := os.Getenv("CART_HOME"); env != "" {
		if p, err := normalizePath(env); err == nil {
			return p, "env"
		}
	}
	if p, ok, err := GetPersistedCartHome(); err == nil && ok {
		return p, "config"
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gomarketplace"), "default"
}

// GetCartHome returns the resolved cart home path.
func GetCartHome() string {
	path, _ := ResolveCartHome()
	return path
}

// homeKey is the only key the global config file carries today; other keys
// written by hand are preserved on update.
const homeKey = "cart_home"

// GetPersistedCartHome reads cart_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedCartHome() (string, bool, error) {
	raw, err := readGlobal()
	if err != nil {
		return "", false, err
	}

	val, _ := raw[homeKey].(string)
	if val = strings.TrimSpace(val); val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, fmt.Errorf("config.GetPersistedCartHome: %w", err)
	}
	return p, true, nil
}

// SetPersistedCartHome normalizes path, stores it in the global config and
// returns the normalized value. A global config that cannot be parsed is
// left untouched and reported.
func SetPersistedCartHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", fmt.Errorf("config.SetPersistedCartHome: %w", err)
	}

	raw, err := readGlobal()
	if err != nil {
		return "", err
	}
	raw[homeKey] = normalized

	if err := writeGlobal(raw); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedCartHome removes cart_home from the global config and
// reports whether it was present. An emptied file is deleted.
func ClearPersistedCartHome() (bool, error) {
	raw, err := readGlobal()
	if err != nil {
		return false, err
	}
	if _, ok := raw[homeKey]; !ok {
		return false, nil
	}
	delete(raw, homeKey)
	return true, writeGlobal(raw)
}

// readGlobal returns the parsed global config. A missing file yields an
// empty map; a file that is not a YAML mapping is an error.
func readGlobal() (map[string]any, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return nil, fmt.Errorf("config.readGlobal: %w", err)
	}

	raw := make(map[string]any)
	data, err := os.ReadFile(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return raw, nil
	case err != nil:
		return nil, fmt.Errorf("config.readGlobal: %w", err)
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config.readGlobal: parse %s: %w", cfgPath, err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	return raw, nil
}

// writeGlobal persists raw as the global config, removing the file when raw
// is empty.
func writeGlobal(raw map[string]any) error {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return fmt.Errorf("config.writeGlobal: %w", err)
	}

	if len(raw) == 0 {
		if err := os.Remove(cfgPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config.writeGlobal: %w", err)
		}
		return nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("config.writeGlobal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return fmt.Errorf("config.writeGlobal: %w", err)
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return fmt.Errorf("config.writeGlobal: %w", err)
	}
	return nil
}
