package commands

import (
	"sort"
	"strings"

	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Conflict is a chord bound to more than one command
type Conflict struct {
	Signature  string   `json:"signature" yaml:"signature"`
	CommandIDs []string `json:"commandIds" yaml:"commandIds"`
}

// listAffecting reports whether any toggle can remove commands from a group's list
func listAffecting(s types.FilterSettings) bool {
	return !s[types.ShowCommandsWithoutHotkeys] ||
		s[types.OnlyCustom] ||
		s[types.OnlyDuplicates] ||
		!s[types.DisplayInternalModules] ||
		!s[types.DisplaySystemShortcuts]
}

// FilterCommands returns the commands of a group that match a search and a
// held chord under the group's effective settings.
//
// A non-empty search decides inclusion on its own; the chord and the other
// toggles are ignored while searching.
func (m *Manager) FilterCommands(search string, activeMods []string, activeKey string, groupID string) []types.CommandRecord {
	idx := m.snapshot()
	s := m.deps.Groups.GetGroupSettings(groupID)
	featured := m.featuredSet()

	members := m.members(idx, groupID)
	search = strings.TrimSpace(search)
	chordActive := len(activeMods) > 0 || activeKey != ""

	if search == "" && !chordActive && !listAffecting(s) {
		return featuredFirst(cloneRecords(members), featured, s[types.FeaturedFirst])
	}

	strict := s[types.StrictModifierMatch]
	candidates := members
	if strict && activeKey != "" && search == "" {
		bound := idx.byChord[keys.Signature(activeMods, activeKey, idx.platform)]
		candidates = make([]types.CommandRecord, 0, len(bound))
		for _, rec := range members {
			if contains(bound, rec.ID) {
				candidates = append(candidates, rec)
			}
		}
	}

	opts := keys.MatchOptions{
		Strict:       strict,
		AllowKeyOnly: !strict,
		Platform:     idx.platform,
	}
	query := strings.ToLower(search)

	out := make([]types.CommandRecord, 0, len(candidates))
	for _, rec := range candidates {
		if query != "" {
			if matchesSearch(rec, query, s[types.DisplayIDs]) {
				out = append(out, rec.Clone())
			}
			continue
		}
		if chordActive && !matchesChord(rec, activeMods, activeKey, opts) {
			continue
		}
		if !s[types.ShowCommandsWithoutHotkeys] && len(rec.HotkeysAll) == 0 {
			continue
		}
		if !s[types.DisplayInternalModules] && rec.IsInternalModule {
			continue
		}
		if !s[types.DisplaySystemShortcuts] && rec.IsSystem {
			continue
		}
		if s[types.OnlyCustom] && !rec.HasCustom() {
			continue
		}
		if s[types.OnlyDuplicates] && !idx.hasDuplicate(rec) {
			continue
		}
		out = append(out, rec.Clone())
	}

	return featuredFirst(out, featured, s[types.FeaturedFirst])
}

// members lists the records of a group in member order, skipping unknown
// ids and excluded plugins. The empty and "all" ids list every command.
func (m *Manager) members(idx *index, groupID string) []types.CommandRecord {
	if groupID == "" || groupID == types.AllGroupID {
		return idx.list
	}
	g, ok := m.deps.Groups.Group(groupID)
	if !ok {
		return idx.list
	}

	out := make([]types.CommandRecord, 0, len(g.CommandIDs))
	for _, id := range g.CommandIDs {
		rec, ok := idx.records[id]
		if !ok || contains(g.ExcludedPluginIDs, rec.PluginID) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesSearch(rec types.CommandRecord, query string, withID bool) bool {
	hay := strings.ToLower(rec.PluginName + " " + rec.DisplayName + " " + rec.LocalCommandName)
	if strings.Contains(hay, query) {
		return true
	}
	return withID && strings.Contains(strings.ToLower(rec.ID), query)
}

func matchesChord(rec types.CommandRecord, mods []string, key string, opts keys.MatchOptions) bool {
	for _, b := range rec.HotkeysAll {
		if keys.MatchHotkey(b.Modifiers, b.Key, mods, key, opts) {
			return true
		}
	}
	return false
}

// featuredFirst moves featured records ahead of the rest, keeping the
// relative order inside each part
func featuredFirst(list []types.CommandRecord, featured map[string]bool, enabled bool) []types.CommandRecord {
	if !enabled || len(featured) == 0 {
		return list
	}
	sort.SliceStable(list, func(i, j int) bool {
		return featured[list[i].ID] && !featured[list[j].ID]
	})
	return list
}

func (idx *index) hasDuplicate(rec types.CommandRecord) bool {
	for _, b := range rec.HotkeysAll {
		if idx.boundElsewhere(rec.ID, b) {
			return true
		}
	}
	return false
}

func (idx *index) boundElsewhere(commandID string, b types.HotkeyBinding) bool {
	for _, id := range idx.byChord[b.Signature(idx.platform)] {
		if id != commandID {
			return true
		}
	}
	return false
}

// IsHotkeyDuplicate reports whether another command is bound to the same chord
func (m *Manager) IsHotkeyDuplicate(commandID string, b types.HotkeyBinding) bool {
	return m.snapshot().boundElsewhere(commandID, b)
}

// Duplicates lists every chord bound to more than one command, sorted by signature
func (m *Manager) Duplicates() []Conflict {
	idx := m.snapshot()
	var out []Conflict
	for sig, ids := range idx.byChord {
		if len(ids) < 2 {
			continue
		}
		out = append(out, Conflict{Signature: sig, CommandIDs: append([]string(nil), ids...)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Signature < out[j].Signature
	})
	return out
}
