package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	// SeedPath overrides the bundled default dataset used when no document is stored.
	// Accepts a file path or an http(s) URL. Empty means use the embedded dataset.
	SeedPath string `json:"seed_path,omitempty"`

	// SeedTimeoutSeconds bounds a seed fetch over HTTP.
	SeedTimeoutSeconds int `json:"seed_timeout_seconds,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.supply/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool type prefixes to disable entirely.
	// Known types: "category", "item", "shopping", "data".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SeedTimeoutSeconds: 10,
	}
}

// SeedTimeout returns the seed fetch timeout as a duration.
func (c *Config) SeedTimeout() time.Duration {
	if c == nil || c.SeedTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.SeedTimeoutSeconds) * time.Second
}

// Load reads baseDir/config.json over DefaultConfig. A missing file yields the defaults.
func Load(baseDir string) (*Config, error) {
	overlay, err := readFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// readFile decodes a config file without applying defaults.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Merge layers overlay on base. Set scalars in overlay win, booleans are
// OR-ed, and lists are concatenated with blanks and duplicates dropped.
func Merge(base, overlay *Config) *Config {
	return &Config{
		SeedPath:           or(strings.TrimSpace(overlay.SeedPath), base.SeedPath),
		SeedTimeoutSeconds: or(overlay.SeedTimeoutSeconds, base.SeedTimeoutSeconds),
		DBMaxOpenConns:     or(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:     or(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
		AllowUnsafePaths:   base.AllowUnsafePaths || overlay.AllowUnsafePaths,
		AllowedPaths:       union(base.AllowedPaths, overlay.AllowedPaths),
		DisabledTools:      union(base.DisabledTools, overlay.DisabledTools),
		DisabledTypes:      union(base.DisabledTypes, overlay.DisabledTypes),
	}
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func union(a, b []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range slices.Concat(a, b) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
