package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigPath(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"session", []string{"session"}, false},
		{"session.store", []string{"session", "store"}, false},
		{"channels.telegram.token", []string{"channels", "telegram", "token"}, false},
		{"", nil, true},
		{"a..b", nil, true},
		{".session", nil, true},
		{"session.", nil, true},
		{"sesion.store", nil, true},
		{"Session", nil, true},
		{"metrics.enabled", []string{"metrics", "enabled"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueAtPath(t *testing.T) {
	root := map[string]any{
		"session": map[string]any{
			"store":    "memory",
			"ttlHours": 6,
		},
		"logging": "not-a-map",
	}

	val, ok := GetValueAtPath(root, []string{"session", "ttlHours"})
	assert.True(t, ok)
	assert.Equal(t, 6, val)

	_, ok = GetValueAtPath(root, []string{"session", "missing"})
	assert.False(t, ok)
	_, ok = GetValueAtPath(root, []string{"logging", "level"})
	assert.False(t, ok)

	SetValueAtPath(root, []string{"session", "store"}, "sqlite")
	val, _ = GetValueAtPath(root, []string{"session", "store"})
	assert.Equal(t, "sqlite", val)

	SetValueAtPath(root, []string{"channels", "telegram", "token"}, "t")
	val, ok = GetValueAtPath(root, []string{"channels", "telegram", "token"})
	assert.True(t, ok)
	assert.Equal(t, "t", val)

	SetValueAtPath(root, []string{"logging", "level"}, "debug")
	val, _ = GetValueAtPath(root, []string{"logging", "level"})
	assert.Equal(t, "debug", val, "non-map intermediate is replaced")

	assert.True(t, UnsetValueAtPath(root, []string{"session", "store"}))
	_, ok = GetValueAtPath(root, []string{"session", "store"})
	assert.False(t, ok)
	_, ok = GetValueAtPath(root, []string{"session", "ttlHours"})
	assert.True(t, ok, "siblings survive")

	assert.False(t, UnsetValueAtPath(root, []string{"session", "store"}))
	assert.False(t, UnsetValueAtPath(root, []string{"nope", "x"}))
}

func TestLoadRawAndSaveRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	raw := map[string]any{"session": map[string]any{"ttlHours": 12}}
	require.NoError(t, SaveRaw(path, raw))

	loaded, err := LoadRaw(path)
	require.NoError(t, err)
	val, ok := GetValueAtPath(loaded, []string{"session", "ttlHours"})
	assert.True(t, ok)
	assert.Equal(t, 12, val)

	empty, err := LoadRaw(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestResolvePaths_Default(t *testing.T) {
	t.Setenv("ADAUDIT_HOME", "")

	paths, err := ResolvePaths()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".adaudit")
	assert.Equal(t, base, paths.Base)
	assert.Equal(t, filepath.Join(base, "config.yaml"), paths.Config)
	assert.Equal(t, filepath.Join(base, ".env"), paths.EnvFile)
	assert.Equal(t, filepath.Join(base, "data"), paths.Data)
}

func TestResolvePaths_CustomHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("ADAUDIT_HOME", tmp)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, tmp, paths.Base)
	assert.Equal(t, filepath.Join(tmp, "data", "sessions.db"), paths.SessionDB(SessionConfig{}))
	assert.Equal(t, "/var/lib/adaudit.db", paths.SessionDB(SessionConfig{Path: "/var/lib/adaudit.db"}))
}

func TestEnsureDirs(t *testing.T) {
	t.Setenv("ADAUDIT_HOME", filepath.Join(t.TempDir(), "home"))

	paths, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, paths.EnsureDirs(), "idempotent")

	for _, d := range []string{paths.Base, paths.Data, paths.Logs} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
