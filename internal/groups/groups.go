// Package groups manages user-defined command groups and resolves each
// group's effective filter settings.
package groups

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/studiowebux/hotkeyhub/internal/settings"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Manager is the only writer of the group list. Every write replaces the
// whole list in the settings store and persists it.
type Manager struct {
	store    *settings.Store
	schedule func(func())

	mu      sync.Mutex
	writing map[string]bool
}

// Option configures a Manager
type Option func(*Manager)

// WithScheduler replaces the next-tick scheduler used to release write locks
func WithScheduler(schedule func(func())) Option {
	return func(m *Manager) {
		m.schedule = schedule
	}
}

// NewManager creates a group manager over store
func NewManager(store *settings.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		writing: make(map[string]bool),
		schedule: func(fn func()) {
			time.AfterFunc(0, fn)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsAll reports whether id names the pseudo-group of every command
func IsAll(id string) bool {
	return id == "" || id == types.AllGroupID
}

// Groups returns a snapshot of every group in display order
func (m *Manager) Groups() []types.CommandGroup {
	return m.store.Get().CommandGroups
}

// Group returns one group by id
func (m *Manager) Group(id string) (types.CommandGroup, bool) {
	for _, g := range m.store.Get().CommandGroups {
		if g.ID == id {
			return g, true
		}
	}
	return types.CommandGroup{}, false
}

// SuggestGroupID returns the closest existing id for a mistyped one
func (m *Manager) SuggestGroupID(id string) (string, bool) {
	best, bestDist := "", 4
	for _, g := range m.store.Get().CommandGroups {
		if d := levenshtein.ComputeDistance(strings.ToLower(id), g.ID); d < bestDist {
			best, bestDist = g.ID, d
		}
	}
	return best, best != ""
}

// notFound builds an ErrNotFound error with a suggestion when one exists
func (m *Manager) notFound(id string) error {
	if s, ok := m.SuggestGroupID(id); ok {
		return fmt.Errorf("group %q: %w (did you mean %q?)", id, types.ErrNotFound, s)
	}
	return fmt.Errorf("group %q: %w", id, types.ErrNotFound)
}

// CreateGroup appends an empty group whose filters start as a copy of the
// global defaults and returns its id
func (m *Manager) CreateGroup(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("group name is empty")
	}

	var id string
	defaults := m.store.GlobalDefaults()
	m.store.Update(func(d *settings.Data) {
		taken := func(s string) bool {
			if s == types.AllGroupID {
				return true
			}
			for _, g := range d.CommandGroups {
				if g.ID == s {
					return true
				}
			}
			return false
		}
		id = uniqueSlug(Slugify(name), taken)
		groups := types.CloneGroups(d.CommandGroups)
		d.CommandGroups = append(groups, types.CommandGroup{
			ID:             id,
			Name:           name,
			CommandIDs:     []string{},
			FilterSettings: defaults.Clone(),
		})
	})

	if err := m.store.Save(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteGroup removes a group
func (m *Manager) DeleteGroup(ctx context.Context, id string) error {
	found := false
	m.store.Update(func(d *settings.Data) {
		next := make([]types.CommandGroup, 0, len(d.CommandGroups))
		for _, g := range d.CommandGroups {
			if g.ID == id {
				found = true
				continue
			}
			next = append(next, g)
		}
		d.CommandGroups = next
		if d.LastGroupID == id {
			d.LastGroupID = ""
		}
	})
	if !found {
		return m.notFound(id)
	}
	return m.store.Save(ctx)
}

// RenameGroup changes the display name; the id is kept
func (m *Manager) RenameGroup(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("group name is empty")
	}
	_, found, err := m.mutate(ctx, id, func(g *types.CommandGroup) bool {
		if g.Name == name {
			return false
		}
		g.Name = name
		return true
	})
	if !found {
		return m.notFound(id)
	}
	return err
}

// DuplicateGroup copies a group under "<name> copy" and returns the new id
func (m *Manager) DuplicateGroup(ctx context.Context, id string) (string, error) {
	src, ok := m.Group(id)
	if !ok {
		return "", m.notFound(id)
	}

	var newID string
	m.store.Update(func(d *settings.Data) {
		taken := func(s string) bool {
			if s == types.AllGroupID {
				return true
			}
			for _, g := range d.CommandGroups {
				if g.ID == s {
					return true
				}
			}
			return false
		}
		dup := src.Clone()
		dup.Name = src.Name + " copy"
		dup.ID = uniqueSlug(Slugify(dup.Name), taken)
		dup.RegisterCommand = false
		newID = dup.ID

		groups := types.CloneGroups(d.CommandGroups)
		next := make([]types.CommandGroup, 0, len(groups)+1)
		for _, g := range groups {
			next = append(next, g)
			if g.ID == id {
				next = append(next, dup)
			}
		}
		d.CommandGroups = next
	})

	if err := m.store.Save(ctx); err != nil {
		return "", err
	}
	return newID, nil
}

// MoveGroup moves a group to index to, clamped to the list bounds
func (m *Manager) MoveGroup(ctx context.Context, id string, to int) error {
	found, changed := false, false
	m.store.Update(func(d *settings.Data) {
		from := -1
		for i, g := range d.CommandGroups {
			if g.ID == id {
				from = i
				break
			}
		}
		if from < 0 {
			return
		}
		found = true
		to = clamp(to, 0, len(d.CommandGroups)-1)
		if to == from {
			return
		}
		d.CommandGroups = moveItem(types.CloneGroups(d.CommandGroups), from, to)
		changed = true
	})
	if !found {
		return m.notFound(id)
	}
	if !changed {
		return nil
	}
	return m.store.Save(ctx)
}

// SetGroupPinned pins or unpins a group
func (m *Manager) SetGroupPinned(ctx context.Context, id string, pinned bool) error {
	_, found, err := m.mutate(ctx, id, func(g *types.CommandGroup) bool {
		if g.Pinned == pinned {
			return false
		}
		g.Pinned = pinned
		return true
	})
	if !found {
		return m.notFound(id)
	}
	return err
}

// SetGroupAppearance sets the icon and color shown next to a group
func (m *Manager) SetGroupAppearance(ctx context.Context, id, icon, color string) error {
	_, found, err := m.mutate(ctx, id, func(g *types.CommandGroup) bool {
		if g.Icon == icon && g.Color == color {
			return false
		}
		g.Icon, g.Color = icon, color
		return true
	})
	if !found {
		return m.notFound(id)
	}
	return err
}

// SetRegisterCommand controls whether the host registers an "open group" command
func (m *Manager) SetRegisterCommand(ctx context.Context, id string, register bool) error {
	_, found, err := m.mutate(ctx, id, func(g *types.CommandGroup) bool {
		if g.RegisterCommand == register {
			return false
		}
		g.RegisterCommand = register
		return true
	})
	if !found {
		return m.notFound(id)
	}
	return err
}

// SetExcludedPlugins replaces the plugin ids hidden from a group
func (m *Manager) SetExcludedPlugins(ctx context.Context, id string, pluginIDs []string) error {
	next := dedupe(pluginIDs)
	_, found, err := m.mutate(ctx, id, func(g *types.CommandGroup) bool {
		if equalStrings(g.ExcludedPluginIDs, next) {
			return false
		}
		g.ExcludedPluginIDs = next
		return true
	})
	if !found {
		return m.notFound(id)
	}
	return err
}

// ReplaceGroups swaps the whole group list for groups, as an import does.
// Missing ids are slugged from the name and colliding ones renumbered.
// Member and excluded plugin lists are deduplicated and filters filled up
// to the full key set. It returns the list that was stored.
func (m *Manager) ReplaceGroups(ctx context.Context, groups []types.CommandGroup) ([]types.CommandGroup, error) {
	global := m.store.GlobalDefaults()
	next := sanitizeGroups(groups)
	for i := range next {
		fillFilters(&next[i], global)
	}

	m.store.Update(func(d *settings.Data) {
		d.CommandGroups = next
		if d.LastGroupID != "" && !hasGroup(next, d.LastGroupID) {
			d.LastGroupID = ""
		}
	})
	if err := m.store.Save(ctx); err != nil {
		return nil, err
	}
	return types.CloneGroups(next), nil
}

// sanitizeGroups returns a copy of groups with unique non-empty ids and
// duplicate-free member lists
func sanitizeGroups(groups []types.CommandGroup) []types.CommandGroup {
	out := types.CloneGroups(groups)
	seen := map[string]bool{types.AllGroupID: true}
	for i := range out {
		g := &out[i]
		base := strings.TrimSpace(g.ID)
		if base == "" {
			base = Slugify(g.Name)
		}
		g.ID = uniqueSlug(base, func(s string) bool { return seen[s] })
		seen[g.ID] = true

		g.CommandIDs = dedupe(g.CommandIDs)
		if g.ExcludedPluginIDs != nil {
			g.ExcludedPluginIDs = dedupe(g.ExcludedPluginIDs)
		}
	}
	return out
}

func hasGroup(groups []types.CommandGroup, id string) bool {
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// mutate applies fn to a copy of the group and, when fn reports a change,
// replaces the whole list and persists it
func (m *Manager) mutate(ctx context.Context, id string, fn func(*types.CommandGroup) bool) (changed, found bool, err error) {
	m.store.Update(func(d *settings.Data) {
		groups := types.CloneGroups(d.CommandGroups)
		for i := range groups {
			if groups[i].ID != id {
				continue
			}
			found = true
			if fn(&groups[i]) {
				changed = true
				d.CommandGroups = groups
			}
			return
		}
	})
	if !changed {
		return false, found, nil
	}
	return true, true, m.store.Save(ctx)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func moveItem[T any](list []T, from, to int) []T {
	item := list[from]
	list = append(list[:from], list[from+1:]...)
	list = append(list[:to], append([]T{item}, list[to:]...)...)
	return list
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
