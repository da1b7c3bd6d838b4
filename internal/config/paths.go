package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const defaultBaseDir = ".adaudit"

// Paths holds resolved filesystem paths for adaudit data.
type Paths struct {
	Base    string // ~/.adaudit
	Config  string // ~/.adaudit/config.yaml
	EnvFile string // ~/.adaudit/.env
	Data    string // ~/.adaudit/data
	Logs    string // ~/.adaudit/logs
}

// ResolvePaths computes the standard paths. ADAUDIT_HOME overrides the base
// directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("ADAUDIT_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:    base,
		Config:  filepath.Join(base, "config.yaml"),
		EnvFile: filepath.Join(base, ".env"),
		Data:    filepath.Join(base, "data"),
		Logs:    filepath.Join(base, "logs"),
	}, nil
}

// SessionDB returns the sqlite session file, honoring an explicit path.
func (p Paths) SessionDB(cfg SessionConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(p.Data, "sessions.db")
}

// EnsureDirs creates the standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Data, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// sections are the top-level keys of the config file.
var sections = map[string]bool{
	"gateway":  true,
	"channels": true,
	"access":   true,
	"session":  true,
	"logging":  true,
	"metrics":  true,
}

// ParseConfigPath splits a dotted key such as "session.ttlHours". The first
// segment must name a config section so typos don't land in the file.
func ParseConfigPath(raw string) ([]string, error) {
	if raw == "" {
		return nil, &ConfigError{Message: "empty config path"}
	}
	parts := strings.Split(raw, ".")
	if slices.Contains(parts, "") {
		return nil, &ConfigError{Message: "config path contains empty segment"}
	}
	if !sections[parts[0]] {
		return nil, &ConfigError{Message: "unknown config section: " + parts[0]}
	}
	return parts, nil
}

// GetValueAtPath traverses a nested map using the given path segments.
func GetValueAtPath(root map[string]any, path []string) (any, bool) {
	current := any(root)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetValueAtPath sets a value in a nested map, creating intermediate maps as needed.
func SetValueAtPath(root map[string]any, path []string, value any) {
	current := root
	for _, key := range path[:len(path)-1] {
		next, ok := current[key]
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		m, ok := next.(map[string]any)
		if !ok {
			m = map[string]any{}
			current[key] = m
		}
		current = m
	}
	current[path[len(path)-1]] = value
}

// UnsetValueAtPath removes a value at the given path. Returns true if removed.
func UnsetValueAtPath(root map[string]any, path []string) bool {
	current := root
	for _, key := range path[:len(path)-1] {
		next, ok := current[key]
		if !ok {
			return false
		}
		m, ok := next.(map[string]any)
		if !ok {
			return false
		}
		current = m
	}
	last := path[len(path)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}
