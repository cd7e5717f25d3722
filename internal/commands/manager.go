// Package commands owns the command index: one record per host command with
// its default and custom bindings, plus a reverse index from chord signature
// to command ids. The index is rebuilt wholesale and swapped atomically.
package commands

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/settings"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

const maxRecent = 10

// GroupSource resolves group membership and effective settings
type GroupSource interface {
	GetGroupSettings(id string) types.FilterSettings
	Group(id string) (types.CommandGroup, bool)
}

// Deps are the collaborators a Manager reads from
type Deps struct {
	Commands host.CommandRegistry
	Hotkeys  host.HotkeyReader
	Plugins  host.PluginRegistry
	Settings *settings.Store
	Groups   GroupSource
}

// index is an immutable snapshot; a rebuild replaces it as a whole
type index struct {
	records  map[string]types.CommandRecord
	list     []types.CommandRecord
	byChord  map[string][]string
	platform keys.Platform
}

func emptyIndex(p keys.Platform) *index {
	return &index{
		records:  map[string]types.CommandRecord{},
		byChord:  map[string][]string{},
		platform: p,
	}
}

// Manager is the source of truth for which commands exist and how they are bound
type Manager struct {
	deps Deps

	rebuilds singleflight.Group

	mu  sync.RWMutex
	idx *index

	recentMu sync.Mutex
	recent   []string

	subMu     sync.Mutex
	subs      map[int]func()
	nextSubID int
}

// NewManager creates a manager with an empty index. Call Initialize or
// RebuildIndex before querying.
func NewManager(deps Deps) *Manager {
	return &Manager{
		deps: deps,
		idx:  emptyIndex(deps.Settings.Platform()),
		subs: make(map[int]func()),
	}
}

// Initialize rebuilds the index in the background so startup is never
// blocked on it. The channel receives the rebuild result and is closed.
func (m *Manager) Initialize(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		runtime.Gosched()
		done <- m.RebuildIndex(ctx)
	}()
	return done
}

// RebuildIndex reads every host command and swaps in a fresh index.
// Concurrent calls share one rebuild. On failure the previous index is kept.
func (m *Manager) RebuildIndex(ctx context.Context) error {
	_, err, _ := m.rebuilds.Do("rebuild", func() (any, error) {
		idx, err := m.build(ctx)
		if err != nil {
			log.ErrorLog.Printf("index rebuild failed, keeping previous index: %v", err)
			return nil, err
		}
		m.mu.Lock()
		m.idx = idx
		m.mu.Unlock()
		log.DebugLog.Printf("index rebuilt: %d commands, %d chords", len(idx.list), len(idx.byChord))
		m.notify()
		return nil, nil
	})
	return err
}

func (m *Manager) build(ctx context.Context) (*index, error) {
	cmds, err := m.deps.Commands.Commands()
	if err != nil {
		return nil, fmt.Errorf("failed to list host commands: %w", err)
	}

	p := m.deps.Settings.Platform()
	cl := newClassifier(m.deps.Plugins)
	idx := emptyIndex(p)
	idx.list = make([]types.CommandRecord, 0, len(cmds)+len(systemShortcuts))

	add := func(rec types.CommandRecord) error {
		if _, dup := idx.records[rec.ID]; dup {
			return fmt.Errorf("duplicate command id %q", rec.ID)
		}
		idx.records[rec.ID] = rec
		idx.list = append(idx.list, rec)
		for _, b := range rec.HotkeysAll {
			sig := b.Signature(p)
			idx.byChord[sig] = append(idx.byChord[sig], rec.ID)
		}
		return nil
	}

	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := add(m.record(c, cl, p)); err != nil {
			return nil, err
		}
	}
	for _, rec := range systemRecords(p) {
		if err := add(rec); err != nil {
			return nil, err
		}
	}

	if err := idx.validate(); err != nil {
		return nil, err
	}
	return idx, nil
}

// record builds the denormalized view of one command. A custom entry,
// even an empty one, overrides the defaults entirely.
func (m *Manager) record(c host.Command, cl *classifier, p keys.Platform) types.CommandRecord {
	pluginID, local := types.SplitCommandID(c.ID)
	pluginName := cl.name(pluginID)

	defaults, _ := m.deps.Hotkeys.DefaultHotkeys(c.ID)
	custom, hasCustom := m.deps.Hotkeys.CustomHotkeys(c.ID)

	rec := types.CommandRecord{
		ID:               c.ID,
		DisplayName:      c.Name,
		PluginID:         pluginID,
		PluginName:       pluginName,
		LocalCommandName: localName(c.Name, pluginName, local),
		HotkeysDefault:   canonical(defaults, false, p),
		HotkeysCustom:    canonical(custom, true, p),
		IsInternalModule: cl.internal(pluginID),
	}
	if hasCustom {
		rec.HotkeysAll = types.DedupeBindings(rec.HotkeysCustom, p)
	} else {
		rec.HotkeysAll = types.DedupeBindings(rec.HotkeysDefault, p)
	}
	return rec
}

func canonical(in []types.HotkeyBinding, custom bool, p keys.Platform) []types.HotkeyBinding {
	out := make([]types.HotkeyBinding, 0, len(in))
	for _, b := range in {
		c := b.Canonical(p)
		c.IsCustom = custom
		out = append(out, c)
	}
	return out
}

func localName(name, pluginName, fallback string) string {
	if rest, ok := strings.CutPrefix(name, pluginName+": "); ok {
		return rest
	}
	if name == "" {
		return fallback
	}
	return name
}

// validate checks that the record table and the reverse index describe
// the same bindings
func (idx *index) validate() error {
	entries := 0
	for _, rec := range idx.list {
		for _, b := range rec.HotkeysAll {
			entries++
			if !contains(idx.byChord[b.Signature(idx.platform)], rec.ID) {
				return fmt.Errorf("%w: %s missing from chord %s", types.ErrInvariantViolation, rec.ID, b.Signature(idx.platform))
			}
		}
	}
	indexed := 0
	for sig, ids := range idx.byChord {
		for _, id := range ids {
			if _, ok := idx.records[id]; !ok {
				return fmt.Errorf("%w: chord %s points at unknown command %s", types.ErrInvariantViolation, sig, id)
			}
			indexed++
		}
	}
	if entries != indexed {
		return fmt.Errorf("%w: %d bindings but %d index entries", types.ErrInvariantViolation, entries, indexed)
	}
	return nil
}

func (m *Manager) snapshot() *index {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idx
}

// CommandsIndex returns every record keyed by id
func (m *Manager) CommandsIndex() map[string]types.CommandRecord {
	idx := m.snapshot()
	out := make(map[string]types.CommandRecord, len(idx.records))
	for id, rec := range idx.records {
		out[id] = rec.Clone()
	}
	return out
}

// CommandsList returns every record in host order, system shortcuts last
func (m *Manager) CommandsList() []types.CommandRecord {
	return cloneRecords(m.snapshot().list)
}

// Command returns one record
func (m *Manager) Command(id string) (types.CommandRecord, bool) {
	rec, ok := m.snapshot().records[id]
	if !ok {
		return types.CommandRecord{}, false
	}
	return rec.Clone(), true
}

// Platform returns the platform the current index was built for
func (m *Manager) Platform() keys.Platform {
	return m.snapshot().platform
}

// CommandsByHotkeyKey returns the ids bound to a chord signature
func (m *Manager) CommandsByHotkeyKey(signature string) []string {
	idx := m.snapshot()
	mods, key := keys.ParseSignature(signature)
	ids := idx.byChord[keys.Signature(mods, key, idx.platform)]
	return append([]string(nil), ids...)
}

// Subscribe registers fn to run after every rebuild and featured toggle.
// The returned function removes it.
func (m *Manager) Subscribe(fn func()) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify() {
	m.subMu.Lock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func cloneRecords(in []types.CommandRecord) []types.CommandRecord {
	out := make([]types.CommandRecord, len(in))
	for i, rec := range in {
		out[i] = rec.Clone()
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
