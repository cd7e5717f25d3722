// Package host declares the narrow capabilities the index and mutation
// layers need from the host application, plus an in-memory implementation.
package host

import (
	"context"
	"fmt"

	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Command is one entry of the host's command registry
type Command struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Plugin is an installed plugin or built-in module
type Plugin struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// CommandRegistry enumerates the host's commands
type CommandRegistry interface {
	Commands() ([]Command, error)
}

// HotkeyReader exposes default and user-customized bindings.
// The bool result reports whether an entry exists; a custom entry may exist
// and be empty, meaning the user removed every binding.
type HotkeyReader interface {
	DefaultHotkeys(commandID string) ([]types.HotkeyBinding, bool)
	CustomHotkeys(commandID string) ([]types.HotkeyBinding, bool)
}

// PluginRegistry lists built-in modules and community plugins
type PluginRegistry interface {
	InternalPlugins() []Plugin
	CommunityPlugins() []Plugin
}

// Persistence loads and saves the opaque settings blob.
// LoadData returns nil data when nothing has been saved yet.
type Persistence interface {
	LoadData(ctx context.Context) ([]byte, error)
	SaveData(ctx context.Context, data []byte) error
}

// HotkeySetter replaces a command's custom bindings in memory
type HotkeySetter interface {
	SetHotkeys(commandID string, bindings []types.HotkeyBinding) error
}

// HotkeyRemover drops a command's custom entry, so its defaults apply again
type HotkeyRemover interface {
	RemoveHotkeys(commandID string) error
}

// HotkeySaver persists the custom bindings
type HotkeySaver interface {
	Save(ctx context.Context) error
}

// HotkeyLoader re-reads persisted custom bindings. It is optional: hosts
// that keep no separate copy skip the reload.
type HotkeyLoader interface {
	Load() error
}

// HotkeyBaker recomputes the host's own chord dispatch table
type HotkeyBaker interface {
	Bake() error
}

// Writer bundles the capabilities a mutation needs. Loader may be nil.
type Writer struct {
	Setter  HotkeySetter
	Remover HotkeyRemover
	Saver   HotkeySaver
	Loader  HotkeyLoader
	Baker   HotkeyBaker
}

// ProbeWriter checks h for every mutating capability and fails with
// types.ErrUnavailableCapability naming the first one missing
func ProbeWriter(h any) (*Writer, error) {
	w := &Writer{}
	var ok bool
	if w.Setter, ok = h.(HotkeySetter); !ok {
		return nil, fmt.Errorf("%w: setHotkeys", types.ErrUnavailableCapability)
	}
	if w.Remover, ok = h.(HotkeyRemover); !ok {
		return nil, fmt.Errorf("%w: removeHotkeys", types.ErrUnavailableCapability)
	}
	if w.Saver, ok = h.(HotkeySaver); !ok {
		return nil, fmt.Errorf("%w: save", types.ErrUnavailableCapability)
	}
	if w.Baker, ok = h.(HotkeyBaker); !ok {
		return nil, fmt.Errorf("%w: bake", types.ErrUnavailableCapability)
	}
	w.Loader, _ = h.(HotkeyLoader)
	return w, nil
}

// Commit persists, reloads when supported and recomputes the host lookup table
func (w *Writer) Commit(ctx context.Context) error {
	if err := w.Saver.Save(ctx); err != nil {
		return fmt.Errorf("failed to save hotkeys: %w", err)
	}
	if w.Loader != nil {
		if err := w.Loader.Load(); err != nil {
			return fmt.Errorf("failed to reload hotkeys: %w", err)
		}
	}
	if err := w.Baker.Bake(); err != nil {
		return fmt.Errorf("failed to bake hotkeys: %w", err)
	}
	return nil
}

// ReadOnly hides every capability of a reader except reading
func ReadOnly(r HotkeyReader) HotkeyReader {
	return readOnly{r}
}

type readOnly struct {
	r HotkeyReader
}

func (ro readOnly) DefaultHotkeys(id string) ([]types.HotkeyBinding, bool) {
	return ro.r.DefaultHotkeys(id)
}

func (ro readOnly) CustomHotkeys(id string) ([]types.HotkeyBinding, bool) {
	return ro.r.CustomHotkeys(id)
}
