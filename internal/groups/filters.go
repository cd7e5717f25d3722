package groups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/settings"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// GetGroupSettings returns the effective settings of a group: the global
// defaults overlaid with the group's own overrides. Unknown ids and the
// "all" pseudo-group resolve to the global defaults.
func (m *Manager) GetGroupSettings(id string) types.FilterSettings {
	d := m.store.Get()
	global := types.ResolveFilterSettings(nil, d.FilterSettings)
	if IsAll(id) {
		return global
	}
	for _, g := range d.CommandGroups {
		if g.ID == id {
			return types.ResolveFilterSettings(global, g.FilterSettings)
		}
	}
	return global
}

// UpdateGroupFilterSettings merges partial onto the group's effective
// settings. It reports false without writing when nothing changes or a
// write for the same group is still in flight.
func (m *Manager) UpdateGroupFilterSettings(ctx context.Context, id string, partial types.FilterSettings) (bool, error) {
	current := m.GetGroupSettings(id)
	next := current.Clone()
	for k, v := range partial {
		next[k] = v
	}
	if next.Equal(current) {
		return false, nil
	}
	return m.writeFilters(ctx, id, next)
}

// ReplaceGroupFilters replaces the group's settings wholesale. Keys missing
// from full fall back to the global defaults.
func (m *Manager) ReplaceGroupFilters(ctx context.Context, id string, full types.FilterSettings) (bool, error) {
	current := m.GetGroupSettings(id)
	next := types.ResolveFilterSettings(m.store.GlobalDefaults(), full)
	if next.Equal(current) {
		return false, nil
	}
	return m.writeFilters(ctx, id, next)
}

// writeFilters stores next under the per-group write lock. The lock is
// released on the next scheduler tick so echoes of this write are dropped.
func (m *Manager) writeFilters(ctx context.Context, id string, next types.FilterSettings) (bool, error) {
	key := id
	if IsAll(id) {
		key = types.AllGroupID
	}

	m.mu.Lock()
	if m.writing[key] {
		m.mu.Unlock()
		log.DebugLog.Printf("group %s: write already in progress, skipping", key)
		return false, nil
	}
	m.writing[key] = true
	m.mu.Unlock()

	m.schedule(func() {
		m.mu.Lock()
		delete(m.writing, key)
		m.mu.Unlock()
	})

	found := IsAll(id)
	m.store.Update(func(d *settings.Data) {
		if IsAll(id) {
			d.FilterSettings = next.Clone()
			return
		}
		groups := types.CloneGroups(d.CommandGroups)
		for i := range groups {
			if groups[i].ID != id {
				continue
			}
			found = true
			groups[i].FilterSettings = next.Clone()
			if groups[i].IsDynamic() {
				groups[i].LastUsedState = &types.FilterSnapshot{Filters: next.Clone()}
			}
			d.CommandGroups = groups
			return
		}
	})
	if !found {
		log.DebugLog.Printf("group %s: not found, filters not written", id)
		return false, nil
	}

	if err := m.store.Save(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// SetGroupBehavior sets what OpenGroup restores: the saved defaults or the
// last used filters
func (m *Manager) SetGroupBehavior(ctx context.Context, id, onOpen string) error {
	if onOpen != types.OnOpenDefault && onOpen != types.OnOpenDynamic {
		return fmt.Errorf("invalid open behavior %q (want %s or %s)", onOpen, types.OnOpenDefault, types.OnOpenDynamic)
	}
	global := m.store.GlobalDefaults()
	_, found, err := m.mutate(ctx, id, func(g *types.CommandGroup) bool {
		if g.Behavior != nil && g.Behavior.OnOpen == onOpen {
			return false
		}
		g.Behavior = &types.GroupBehavior{OnOpen: onOpen}
		if onOpen == types.OnOpenDynamic && g.LastUsedState == nil {
			g.LastUsedState = &types.FilterSnapshot{Filters: types.ResolveFilterSettings(global, g.FilterSettings)}
		}
		return true
	})
	if !found {
		return m.notFound(id)
	}
	return err
}

// SaveGroupDefaults stores the group's current effective settings as its
// static defaults
func (m *Manager) SaveGroupDefaults(ctx context.Context, id string) error {
	current := m.GetGroupSettings(id)
	_, found, err := m.mutate(ctx, id, func(g *types.CommandGroup) bool {
		if g.Defaults != nil && g.Defaults.Filters.Equal(current) {
			return false
		}
		g.Defaults = &types.FilterSnapshot{Filters: current.Clone()}
		return true
	})
	if !found {
		return m.notFound(id)
	}
	return err
}

// ApplyDefaultsToGroupFilters replaces the group's filters with its saved
// defaults
func (m *Manager) ApplyDefaultsToGroupFilters(ctx context.Context, id string) (bool, error) {
	g, ok := m.Group(id)
	if !ok || g.Defaults == nil || g.Defaults.Filters == nil {
		log.DebugLog.Printf("group %s: no defaults to apply", id)
		return false, nil
	}
	return m.ReplaceGroupFilters(ctx, id, g.Defaults.Filters)
}

// ApplyDynamicLastUsedToGroupFilters replaces the group's filters with the
// state it was last left in
func (m *Manager) ApplyDynamicLastUsedToGroupFilters(ctx context.Context, id string) (bool, error) {
	g, ok := m.Group(id)
	if !ok || g.LastUsedState == nil || g.LastUsedState.Filters == nil {
		log.DebugLog.Printf("group %s: no last used state to apply", id)
		return false, nil
	}
	return m.ReplaceGroupFilters(ctx, id, g.LastUsedState.Filters)
}

// OpenGroup restores the filters a group should show on open, remembers it
// as the last opened group and returns its effective settings
func (m *Manager) OpenGroup(ctx context.Context, id string) (types.FilterSettings, error) {
	if !IsAll(id) {
		g, ok := m.Group(id)
		if !ok {
			return nil, m.notFound(id)
		}
		var err error
		if g.IsDynamic() {
			_, err = m.ApplyDynamicLastUsedToGroupFilters(ctx, id)
		} else {
			_, err = m.ApplyDefaultsToGroupFilters(ctx, id)
		}
		if err != nil {
			return nil, err
		}
	}

	last := id
	if IsAll(id) {
		last = ""
	}
	if m.store.Get().LastGroupID != last {
		m.store.Update(func(d *settings.Data) {
			d.LastGroupID = last
		})
		if err := m.store.Save(ctx); err != nil {
			return nil, err
		}
	}
	return m.GetGroupSettings(id), nil
}

// NormalizeAllGroups fills every group's filters and snapshots up to the
// full key set. It writes only when the serialized list changed.
func (m *Manager) NormalizeAllGroups(ctx context.Context) (bool, error) {
	d := m.store.Get()
	global := types.ResolveFilterSettings(nil, d.FilterSettings)

	normalized := sanitizeGroups(d.CommandGroups)
	for i := range normalized {
		fillFilters(&normalized[i], global)
	}

	before, errBefore := json.Marshal(d.CommandGroups)
	after, errAfter := json.Marshal(normalized)
	switch {
	case errBefore != nil || errAfter != nil:
		log.WarningLog.Printf("failed to compare groups, writing unconditionally: %v", firstErr(errBefore, errAfter))
	case bytes.Equal(before, after):
		return false, nil
	}

	m.store.Update(func(d *settings.Data) {
		d.CommandGroups = normalized
	})
	if err := m.store.Save(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// fillFilters resolves the group's filters and snapshots against global
func fillFilters(g *types.CommandGroup, global types.FilterSettings) {
	g.FilterSettings = types.ResolveFilterSettings(global, g.FilterSettings)
	if g.Defaults != nil {
		g.Defaults.Filters = types.ResolveFilterSettings(global, g.Defaults.Filters)
	}
	if g.LastUsedState != nil {
		g.LastUsedState.Filters = types.ResolveFilterSettings(global, g.LastUsedState.Filters)
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
