package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/hotkeyhub/internal/settings"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

func (m *Manager) featuredSet() map[string]bool {
	ids := m.deps.Settings.Get().FeaturedCommandIDs
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// IsFeatured reports whether a command is pinned to the featured list
func (m *Manager) IsFeatured(id string) bool {
	return m.featuredSet()[id]
}

// FeaturedCommands returns the featured records that still exist
func (m *Manager) FeaturedCommands() []types.CommandRecord {
	idx := m.snapshot()
	var out []types.CommandRecord
	for _, id := range m.deps.Settings.Get().FeaturedCommandIDs {
		if rec, ok := idx.records[id]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// ToggleFeaturedCommand adds or removes a command from the featured set,
// persists it and returns the new state
func (m *Manager) ToggleFeaturedCommand(ctx context.Context, id string) (bool, error) {
	if _, ok := m.Command(id); !ok {
		return false, fmt.Errorf("command %q: %w", id, types.ErrNotFound)
	}

	featured := false
	m.deps.Settings.Update(func(d *settings.Data) {
		next := make([]string, 0, len(d.FeaturedCommandIDs)+1)
		for _, f := range d.FeaturedCommandIDs {
			if f != id {
				next = append(next, f)
			}
		}
		if len(next) == len(d.FeaturedCommandIDs) {
			next = append(next, id)
			featured = true
		}
		d.FeaturedCommandIDs = next
	})
	if err := m.deps.Settings.Save(ctx); err != nil {
		return featured, err
	}
	m.notify()
	return featured, nil
}

// AddRecentCommand moves id to the front of the recent list
func (m *Manager) AddRecentCommand(id string) {
	m.recentMu.Lock()
	defer m.recentMu.Unlock()

	next := make([]string, 0, maxRecent)
	next = append(next, id)
	for _, r := range m.recent {
		if r != id && len(next) < maxRecent {
			next = append(next, r)
		}
	}
	m.recent = next
}

// RecentCommands returns recently used ids, most recent first
func (m *Manager) RecentCommands() []string {
	m.recentMu.Lock()
	defer m.recentMu.Unlock()
	return append([]string(nil), m.recent...)
}

// SearchCommandsByName returns up to limit commands whose name contains
// query, skipping excluded ids. A limit <= 0 means no limit.
func (m *Manager) SearchCommandsByName(query string, exclude []string, limit int) []types.CommandRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	var out []types.CommandRecord
	for _, rec := range m.snapshot().list {
		if skip[rec.ID] {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(rec.DisplayName), query) {
			continue
		}
		out = append(out, rec.Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// recordSource adapts the record list to fuzzy.Source
type recordSource []types.CommandRecord

func (s recordSource) String(i int) string {
	return s[i].ID + " " + s[i].DisplayName
}

func (s recordSource) Len() int {
	return len(s)
}

// SuggestCommands ranks command ids by fuzzy similarity to query
func (m *Manager) SuggestCommands(query string, limit int) []string {
	list := m.snapshot().list
	matches := fuzzy.FindFrom(query, recordSource(list))

	var out []string
	for _, match := range matches {
		out = append(out, list[match.Index].ID)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
