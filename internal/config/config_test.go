package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/keys"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), FilePermissions))
	return path
}

func TestInitializeAt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".hotkeyhub")
	require.NoError(t, InitializeAt(dir))

	assert.Equal(t, filepath.Join(dir, "hotkeyhub.db"), DatabasePath)
	assert.Equal(t, filepath.Join(dir, "keybinds.json"), KeybindsFile)
	assert.Equal(t, filepath.Join(dir, "config.toml"), ConfigFile)
	assert.DirExists(t, dir)
	assert.DirExists(t, LogsDir)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	require.NoError(t, InitializeAt(t.TempDir()))

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, keys.PlatformNone, cfg.Platform())
	assert.True(t, cfg.HistoryEnabled())
	assert.Equal(t, VaultDir, cfg.Vault())

	logCfg := cfg.GetLogConfig()
	assert.Equal(t, LogsDir, logCfg.Dir)
	assert.Equal(t, 5, logCfg.MaxSizeMB)
	assert.True(t, logCfg.Compress)
	assert.False(t, logCfg.Verbose)
}

func TestLoadValues(t *testing.T) {
	path := writeConfig(t, `
vault_dir = "/data/notes"
emulated_os = "MacOS"
verbose = true

[log]
max_size_mb = 20
max_backups = 1
compress = false

[history]
enabled = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/notes", cfg.Vault())
	assert.Equal(t, keys.PlatformMacOS, cfg.Platform())
	assert.False(t, cfg.HistoryEnabled())

	logCfg := cfg.GetLogConfig()
	assert.Equal(t, 20, logCfg.MaxSizeMB)
	assert.Equal(t, 1, logCfg.MaxBackups)
	assert.Equal(t, 28, logCfg.MaxAgeDays)
	assert.False(t, logCfg.Compress)
	assert.True(t, logCfg.Verbose)
}

func TestLoadRejectsUnknownOS(t *testing.T) {
	_, err := Load(writeConfig(t, `emulated_os = "amiga"`))
	assert.ErrorContains(t, err, "invalid emulated_os")
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load(writeConfig(t, `vault_dir = `))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde expands to home", input: "~/notes", expected: filepath.Join(home, "notes")},
		{name: "absolute path unchanged", input: "/srv/notes", expected: "/srv/notes"},
		{name: "relative path unchanged", input: "notes/work", expected: "notes/work"},
		{name: "empty string unchanged", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}
