// Package settings holds the persisted configuration tree: global filter
// defaults, command groups and featured command ids.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Data is the persisted settings tree
type Data struct {
	FilterSettings     types.FilterSettings `json:"filterSettings" yaml:"filterSettings"`
	CommandGroups      []types.CommandGroup `json:"commandGroups" yaml:"commandGroups"`
	FeaturedCommandIDs []string             `json:"featuredCommandIds" yaml:"featuredCommandIds"`
	EmulatedOS         keys.Platform        `json:"emulatedOS,omitempty" yaml:"emulatedOS,omitempty"`
	LastGroupID        string               `json:"lastGroupId,omitempty" yaml:"lastGroupId,omitempty"`
}

// DefaultData returns the settings used before anything is saved
func DefaultData() Data {
	return Data{
		FilterSettings:     types.DefaultFilterSettings(),
		CommandGroups:      []types.CommandGroup{},
		FeaturedCommandIDs: []string{},
		EmulatedOS:         keys.PlatformNone,
	}
}

// Clone returns a deep copy
func (d Data) Clone() Data {
	out := d
	out.FilterSettings = d.FilterSettings.Clone()
	out.CommandGroups = types.CloneGroups(d.CommandGroups)
	if d.FeaturedCommandIDs != nil {
		out.FeaturedCommandIDs = append([]string{}, d.FeaturedCommandIDs...)
	}
	return out
}

// Store owns the settings tree. Readers get deep copies; writers go through
// Update followed by Save.
type Store struct {
	persist host.Persistence

	mu     sync.RWMutex
	data   Data
	loaded bool
}

// NewStore creates a store backed by p. Until Load succeeds the store
// serves the defaults.
func NewStore(p host.Persistence) *Store {
	return &Store{persist: p, data: DefaultData()}
}

// Load reads the persisted tree. Unreadable or malformed data is logged and
// replaced by the defaults, so Load only fails on a nil persistence.
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return fmt.Errorf("settings store has no persistence")
	}

	data := DefaultData()
	raw, err := s.persist.LoadData(ctx)
	switch {
	case err != nil:
		log.WarningLog.Printf("failed to load settings, using defaults: %v", err)
	case len(raw) > 0:
		var loaded Data
		if err := json.Unmarshal(raw, &loaded); err != nil {
			log.WarningLog.Printf("failed to parse settings, using defaults: %v", err)
		} else {
			data = fill(loaded)
		}
	}

	s.mu.Lock()
	s.data = data
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// fill supplies defaults for absent top-level fields
func fill(d Data) Data {
	d.FilterSettings = types.ResolveFilterSettings(nil, d.FilterSettings)
	if d.CommandGroups == nil {
		d.CommandGroups = []types.CommandGroup{}
	}
	if d.FeaturedCommandIDs == nil {
		d.FeaturedCommandIDs = []string{}
	}
	if d.EmulatedOS == "" {
		d.EmulatedOS = keys.PlatformNone
	}
	return d
}

// Loaded reports whether Load has run
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Get returns a snapshot of the settings tree
func (s *Store) Get() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// GlobalDefaults returns the global filter defaults with every key present
func (s *Store) GlobalDefaults() types.FilterSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.ResolveFilterSettings(nil, s.data.FilterSettings)
}

// Platform returns the resolved platform, honouring the emulated OS setting
func (s *Store) Platform() keys.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return keys.Resolve(s.data.EmulatedOS)
}

// Update applies fn to a copy of the tree and installs the result.
// It does not persist; call Save.
func (s *Store) Update(fn func(*Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.Clone()
	fn(&next)
	s.data = next
}

// Save persists the current tree
func (s *Store) Save(ctx context.Context) error {
	if s.persist == nil {
		return fmt.Errorf("settings store has no persistence")
	}
	s.mu.RLock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.persist.SaveData(ctx, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
