package host

import (
	"context"
	"sort"
	"sync"

	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Memory is an in-process host. Custom bindings are edited in a working
// copy, Save persists them and Load reloads the persisted copy.
type Memory struct {
	mu sync.RWMutex

	commands  []Command
	defaults  map[string][]types.HotkeyBinding
	working   map[string][]types.HotkeyBinding
	persisted map[string][]types.HotkeyBinding
	internal  []Plugin
	community []Plugin
	data      []byte
	lookup    map[string][]string
	platform  keys.Platform

	// CommandsErr, when set, is returned by Commands
	CommandsErr error
	// SaveErr, when set, is returned by Save
	SaveErr error

	Bakes int
}

// NewMemory creates an empty in-memory host
func NewMemory(p keys.Platform) *Memory {
	return &Memory{
		defaults:  make(map[string][]types.HotkeyBinding),
		working:   make(map[string][]types.HotkeyBinding),
		persisted: make(map[string][]types.HotkeyBinding),
		lookup:    make(map[string][]string),
		platform:  p,
	}
}

// AddCommand registers a command with its default bindings
func (m *Memory) AddCommand(id, name string, defaults ...types.HotkeyBinding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, Command{ID: id, Name: name})
	if len(defaults) > 0 {
		m.defaults[id] = types.CloneBindings(defaults)
	}
}

// AddPlugin registers a plugin; internal selects the built-in list
func (m *Memory) AddPlugin(p Plugin, internal bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if internal {
		m.internal = append(m.internal, p)
		return
	}
	m.community = append(m.community, p)
}

func (m *Memory) Commands() ([]Command, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CommandsErr != nil {
		return nil, m.CommandsErr
	}
	out := make([]Command, len(m.commands))
	copy(out, m.commands)
	return out, nil
}

func (m *Memory) DefaultHotkeys(id string) ([]types.HotkeyBinding, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.defaults[id]
	return types.CloneBindings(b), ok
}

func (m *Memory) CustomHotkeys(id string) ([]types.HotkeyBinding, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.working[id]
	return types.CloneBindings(b), ok
}

func (m *Memory) SetHotkeys(id string, bindings []types.HotkeyBinding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.HotkeyBinding, 0, len(bindings))
	for _, b := range bindings {
		c := b.Clone()
		c.IsCustom = false
		out = append(out, c)
	}
	m.working[id] = out
	return nil
}

func (m *Memory) RemoveHotkeys(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.working, id)
	return nil
}

func (m *Memory) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.persisted = cloneBindingMap(m.working)
	return nil
}

func (m *Memory) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = cloneBindingMap(m.persisted)
	return nil
}

// Bake rebuilds the signature -> command lookup used for dispatch
func (m *Memory) Bake() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lookup := make(map[string][]string)
	for _, c := range m.commands {
		bindings, ok := m.working[c.ID]
		if !ok {
			bindings = m.defaults[c.ID]
		}
		for _, b := range bindings {
			sig := b.Signature(m.platform)
			lookup[sig] = append(lookup[sig], c.ID)
		}
	}
	m.lookup = lookup
	m.Bakes++
	return nil
}

// Dispatch returns the commands the host would run for a signature
func (m *Memory) Dispatch(signature string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]string(nil), m.lookup[signature]...)
	sort.Strings(out)
	return out
}

func (m *Memory) InternalPlugins() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Plugin(nil), m.internal...)
}

func (m *Memory) CommunityPlugins() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Plugin(nil), m.community...)
}

func (m *Memory) LoadData(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) SaveData(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func cloneBindingMap(in map[string][]types.HotkeyBinding) map[string][]types.HotkeyBinding {
	out := make(map[string][]types.HotkeyBinding, len(in))
	for k, v := range in {
		c := types.CloneBindings(v)
		if c == nil {
			c = []types.HotkeyBinding{}
		}
		out[k] = c
	}
	return out
}
