package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/log"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.hotkeyhub)
	ConfigDir string

	// DatabasePath is the SQLite database file for the change history
	DatabasePath string

	// LogsDir holds the rotating log files
	LogsDir string

	// KeybindsFile is the TUI keymap override file
	KeybindsFile string

	// ConfigFile is the TOML configuration file
	ConfigFile string

	// VaultDir is the vault used when neither the flag nor the config names one
	VaultDir string
)

// Initialize sets up the configuration directories.
// It creates ~/.hotkeyhub/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".hotkeyhub"))
}

// InitializeAt is Initialize rooted at dir instead of the home directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "hotkeyhub.db")
	LogsDir = filepath.Join(ConfigDir, "logs")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	ConfigFile = filepath.Join(ConfigDir, "config.toml")
	VaultDir = filepath.Join(ConfigDir, "vault")

	for _, d := range []string{ConfigDir, LogsDir} {
		if err := os.MkdirAll(d, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return nil
}

// Config is the contents of config.toml
type Config struct {
	VaultDir   string `koanf:"vault_dir"`
	EmulatedOS string `koanf:"emulated_os"` // "windows", "macos", "linux" or empty to detect
	Verbose    bool   `koanf:"verbose"`

	Log     LogConfig     `koanf:"log"`
	History HistoryConfig `koanf:"history"`
}

// LogConfig controls log rotation
type LogConfig struct {
	MaxSizeMB  int   `koanf:"max_size_mb"`
	MaxBackups int   `koanf:"max_backups"`
	MaxAgeDays int   `koanf:"max_age_days"`
	Compress   *bool `koanf:"compress"` // default: true
}

// HistoryConfig controls the persisted change log
type HistoryConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// Load reads the TOML file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.VaultDir = expandPath(cfg.VaultDir)
	cfg.EmulatedOS = strings.ToLower(strings.TrimSpace(cfg.EmulatedOS))
	if cfg.EmulatedOS != "" && keys.ParsePlatform(cfg.EmulatedOS) == keys.PlatformNone {
		return nil, fmt.Errorf("invalid emulated_os %q: use windows, macos or linux", cfg.EmulatedOS)
	}

	return cfg, nil
}

// Platform returns the platform named by emulated_os, or PlatformNone
func (c *Config) Platform() keys.Platform {
	return keys.ParsePlatform(c.EmulatedOS)
}

// Vault returns the configured vault directory, falling back to VaultDir
func (c *Config) Vault() string {
	if c.VaultDir != "" {
		return c.VaultDir
	}
	return VaultDir
}

// HistoryEnabled reports whether changes are written to the database
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// GetLogConfig returns the logging configuration with defaults applied
func (c *Config) GetLogConfig() log.Config {
	cfg := log.DefaultConfig()
	cfg.Dir = LogsDir
	cfg.Verbose = c.Verbose

	if c.Log.MaxSizeMB > 0 {
		cfg.MaxSizeMB = c.Log.MaxSizeMB
	}
	if c.Log.MaxBackups > 0 {
		cfg.MaxBackups = c.Log.MaxBackups
	}
	if c.Log.MaxAgeDays > 0 {
		cfg.MaxAgeDays = c.Log.MaxAgeDays
	}
	if c.Log.Compress != nil {
		cfg.Compress = *c.Log.Compress
	}
	return cfg
}

// ExpandPath replaces a leading ~ with the home directory
func ExpandPath(path string) string {
	return expandPath(path)
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
