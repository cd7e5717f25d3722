// Package vault implements the host capabilities on top of a directory of
// JSON files, the layout a note vault keeps its configuration in.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/tidwall/jsonc"

	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

const (
	CommandsFile = "commands.json"
	HotkeysFile  = "hotkeys.json"
	PluginsFile  = "plugins.json"
	DataFile     = "hotkeyhub-data.json"
	LockFile     = ".hotkeyhub.lock"

	// DefaultLockTimeout bounds how long writers wait for the lock file
	DefaultLockTimeout = 5 * time.Second
)

type commandEntry struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Hotkeys []types.HotkeyBinding `json:"hotkeys,omitempty"`
}

type pluginsFile struct {
	Internal  []host.Plugin `json:"internal"`
	Community []host.Plugin `json:"community"`
}

// Vault is a file-backed host
type Vault struct {
	dir         string
	platform    keys.Platform
	lock        *flock.Flock
	lockTimeout time.Duration

	mu       sync.RWMutex
	commands []host.Command
	defaults map[string][]types.HotkeyBinding
	custom   map[string][]types.HotkeyBinding
	plugins  pluginsFile
	lookup   map[string][]string
}

// Open reads the vault files in dir. commands.json is required, the other
// files are optional.
func Open(dir string, p keys.Platform) (*Vault, error) {
	v := &Vault{
		dir:         dir,
		platform:    p,
		lock:        flock.New(filepath.Join(dir, LockFile)),
		lockTimeout: DefaultLockTimeout,
		defaults:    make(map[string][]types.HotkeyBinding),
		custom:      make(map[string][]types.HotkeyBinding),
		lookup:      make(map[string][]string),
	}

	var entries []commandEntry
	if err := readJSONC(filepath.Join(dir, CommandsFile), &entries); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", CommandsFile, err)
	}
	for _, e := range entries {
		v.commands = append(v.commands, host.Command{ID: e.ID, Name: e.Name})
		if len(e.Hotkeys) > 0 {
			v.defaults[e.ID] = e.Hotkeys
		}
	}

	if err := readJSONC(filepath.Join(dir, PluginsFile), &v.plugins); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", PluginsFile, err)
	}

	if err := v.Load(); err != nil {
		return nil, err
	}
	if err := v.Bake(); err != nil {
		return nil, err
	}
	return v, nil
}

// Platform returns the platform signatures are baked for
func (v *Vault) Platform() keys.Platform {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.platform
}

// SetPlatform changes the platform signatures are baked for and re-bakes
// the lookup when it differs
func (v *Vault) SetPlatform(p keys.Platform) error {
	v.mu.Lock()
	changed := v.platform != p
	v.platform = p
	v.mu.Unlock()
	if !changed {
		return nil
	}
	return v.Bake()
}

// Dir returns the vault directory
func (v *Vault) Dir() string {
	return v.dir
}

func (v *Vault) Commands() ([]host.Command, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]host.Command, len(v.commands))
	copy(out, v.commands)
	return out, nil
}

func (v *Vault) DefaultHotkeys(id string) ([]types.HotkeyBinding, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, ok := v.defaults[id]
	return types.CloneBindings(b), ok
}

func (v *Vault) CustomHotkeys(id string) ([]types.HotkeyBinding, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, ok := v.custom[id]
	return types.CloneBindings(b), ok
}

func (v *Vault) SetHotkeys(id string, bindings []types.HotkeyBinding) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]types.HotkeyBinding, 0, len(bindings))
	for _, b := range bindings {
		c := b.Clone()
		c.IsCustom = false
		out = append(out, c)
	}
	v.custom[id] = out
	return nil
}

func (v *Vault) RemoveHotkeys(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.custom, id)
	return nil
}

// Save writes hotkeys.json
func (v *Vault) Save(ctx context.Context) error {
	v.mu.RLock()
	data, err := json.MarshalIndent(v.custom, "", "  ")
	v.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal hotkeys: %w", err)
	}
	return v.writeLocked(ctx, HotkeysFile, data)
}

// Load re-reads hotkeys.json, a missing file means no custom bindings
func (v *Vault) Load() error {
	custom := make(map[string][]types.HotkeyBinding)
	if err := readJSONC(filepath.Join(v.dir, HotkeysFile), &custom); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", HotkeysFile, err)
	}
	for id, list := range custom {
		if list == nil {
			custom[id] = []types.HotkeyBinding{}
		}
	}
	v.mu.Lock()
	v.custom = custom
	v.mu.Unlock()
	return nil
}

// Bake rebuilds the signature -> command lookup
func (v *Vault) Bake() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	lookup := make(map[string][]string)
	for _, c := range v.commands {
		bindings, ok := v.custom[c.ID]
		if !ok {
			bindings = v.defaults[c.ID]
		}
		for _, b := range bindings {
			sig := b.Signature(v.platform)
			lookup[sig] = append(lookup[sig], c.ID)
		}
	}
	v.lookup = lookup
	return nil
}

// Dispatch returns the commands bound to a signature after the last Bake
func (v *Vault) Dispatch(signature string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := append([]string(nil), v.lookup[signature]...)
	sort.Strings(out)
	return out
}

func (v *Vault) InternalPlugins() []host.Plugin {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]host.Plugin(nil), v.plugins.Internal...)
}

func (v *Vault) CommunityPlugins() []host.Plugin {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]host.Plugin(nil), v.plugins.Community...)
}

// LoadData reads the settings blob under a shared lock
func (v *Vault) LoadData(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, v.lockTimeout)
	defer cancel()

	locked, err := v.lock.TryRLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire read lock within timeout")
	}
	defer v.lock.Unlock()

	data, err := os.ReadFile(filepath.Join(v.dir, DataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", DataFile, err)
	}
	return jsonc.ToJSON(data), nil
}

// SaveData writes the settings blob atomically
func (v *Vault) SaveData(ctx context.Context, data []byte) error {
	return v.writeLocked(ctx, DataFile, data)
}

func (v *Vault) writeLocked(ctx context.Context, name string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, v.lockTimeout)
	defer cancel()

	locked, err := v.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire write lock within timeout")
	}
	defer v.lock.Unlock()

	path := filepath.Join(v.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func readJSONC(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), dst); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", filepath.Base(path), err)
	}
	return nil
}
