// Package session wires one application session together: the vault host,
// the settings store, the group manager, the command index, the binding
// editor and the change log.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/studiowebux/hotkeyhub/internal/commands"
	"github.com/studiowebux/hotkeyhub/internal/groups"
	"github.com/studiowebux/hotkeyhub/internal/history"
	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/host/vault"
	"github.com/studiowebux/hotkeyhub/internal/hotkeys"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/settings"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Options configures Open
type Options struct {
	// VaultDir is the host configuration directory
	VaultDir string

	// EmulatedOS overrides the persisted emulated OS unless it is none
	EmulatedOS keys.Platform

	// HistoryPath is the change log database, empty disables it
	HistoryPath string

	// CreateExample writes an example vault when VaultDir has none
	CreateExample bool
}

// Session holds the managers of one running instance
type Session struct {
	Vault    *vault.Vault
	Settings *settings.Store
	Groups   *groups.Manager
	Commands *commands.Manager
	Editor   *hotkeys.Editor

	// History is nil when the change log is disabled
	History *history.Manager
}

// Open builds a session over the vault in opts.VaultDir and rebuilds the
// command index before returning
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.VaultDir == "" {
		return nil, fmt.Errorf("no vault directory configured")
	}

	if opts.CreateExample {
		if _, err := os.Stat(opts.VaultDir); errors.Is(err, os.ErrNotExist) {
			log.InfoLog.Printf("creating example vault in %s", opts.VaultDir)
			if err := vault.CreateExample(opts.VaultDir); err != nil {
				return nil, err
			}
		}
	}

	emulated := opts.EmulatedOS
	if emulated == "" {
		emulated = keys.PlatformNone
	}

	v, err := vault.Open(opts.VaultDir, keys.Resolve(emulated))
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}

	store := settings.NewStore(v)
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if emulated != keys.PlatformNone {
		store.Update(func(d *settings.Data) {
			d.EmulatedOS = emulated
		})
	}
	if err := v.SetPlatform(store.Platform()); err != nil {
		return nil, fmt.Errorf("failed to bake vault: %w", err)
	}

	s := &Session{
		Vault:    v,
		Settings: store,
		Groups:   groups.NewManager(store),
	}
	s.Commands = commands.NewManager(commands.Deps{
		Commands: v,
		Hotkeys:  v,
		Plugins:  v,
		Settings: store,
		Groups:   s.Groups,
	})

	var editorOpts []hotkeys.Option
	if opts.HistoryPath != "" {
		s.History, err = history.NewManager(opts.HistoryPath, opts.VaultDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		editorOpts = append(editorOpts, hotkeys.WithRecorder(s.History))
	}
	s.Editor = hotkeys.NewEditor(v, s.Commands, editorOpts...)

	if _, err := s.Groups.NormalizeAllGroups(ctx); err != nil {
		log.WarningLog.Printf("failed to normalize groups: %v", err)
	}

	if err := s.Commands.RebuildIndex(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to build command index: %w", err)
	}

	log.DebugLog.Printf("session opened: vault=%s platform=%s commands=%d",
		opts.VaultDir, s.Platform(), len(s.Commands.CommandsList()))
	return s, nil
}

// Platform returns the platform bindings are displayed for
func (s *Session) Platform() keys.Platform {
	return s.Settings.Platform()
}

// SetEmulatedOS persists a new emulated OS and rebuilds the index
func (s *Session) SetEmulatedOS(ctx context.Context, p keys.Platform) error {
	s.Settings.Update(func(d *settings.Data) {
		d.EmulatedOS = p
	})
	if err := s.Settings.Save(ctx); err != nil {
		return err
	}
	if err := s.Vault.SetPlatform(s.Settings.Platform()); err != nil {
		return err
	}
	return s.Commands.RebuildIndex(ctx)
}

// Refresh re-reads the vault's custom bindings and rebuilds the index
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.Vault.Load(); err != nil {
		return err
	}
	if err := s.Vault.Bake(); err != nil {
		return err
	}
	return s.Commands.RebuildIndex(ctx)
}

// ResolveCommand returns the record for id, or ErrNotFound carrying the
// closest ids
func (s *Session) ResolveCommand(id string) (types.CommandRecord, error) {
	if rec, ok := s.Commands.Command(id); ok {
		return rec, nil
	}
	if suggestions := s.Commands.SuggestCommands(id, 3); len(suggestions) > 0 {
		return types.CommandRecord{}, fmt.Errorf("command %q: %w (did you mean %q?)", id, types.ErrNotFound, suggestions[0])
	}
	return types.CommandRecord{}, fmt.Errorf("command %q: %w", id, types.ErrNotFound)
}

// LastGroupID returns the group shown on start, "all" when unset or gone
func (s *Session) LastGroupID() string {
	id := s.Settings.Get().LastGroupID
	if id == "" || groups.IsAll(id) {
		return types.AllGroupID
	}
	if _, ok := s.Groups.Group(id); !ok {
		return types.AllGroupID
	}
	return id
}

// Writer probes the vault for the mutating capabilities
func (s *Session) Writer() (*host.Writer, error) {
	return host.ProbeWriter(s.Vault)
}

// Close releases the change log
func (s *Session) Close() error {
	if s.History != nil {
		return s.History.Close()
	}
	return nil
}
