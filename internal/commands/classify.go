package commands

import (
	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// coreNamespaces are command prefixes owned by the host itself rather than
// by any plugin, with their display names
var coreNamespaces = map[string]string{
	"app":                   "App",
	"editor":                "Editor",
	"workspace":             "Workspace",
	"window":                "Window",
	"theme":                 "Theme",
	"markdown":              "Markdown",
	"file-explorer":         "Files",
	"open-with-default-app": "Open with default app",
	"properties":            "Properties",
	"table":                 "Table",
}

// classifier answers plugin name and internal-module questions for one rebuild
type classifier struct {
	names     map[string]string
	internals map[string]bool
	community map[string]bool
}

func newClassifier(plugins host.PluginRegistry) *classifier {
	cl := &classifier{
		names:     make(map[string]string),
		internals: make(map[string]bool),
		community: make(map[string]bool),
	}
	if plugins == nil {
		return cl
	}
	for _, p := range plugins.InternalPlugins() {
		cl.internals[p.ID] = true
		cl.names[p.ID] = p.Name
	}
	for _, p := range plugins.CommunityPlugins() {
		cl.community[p.ID] = true
		cl.names[p.ID] = p.Name
	}
	return cl
}

func (cl *classifier) name(pluginID string) string {
	if n, ok := coreNamespaces[pluginID]; ok {
		return n
	}
	if n, ok := cl.names[pluginID]; ok && n != "" {
		return n
	}
	return pluginID
}

// internal checks the core namespaces, then the host's built-in modules,
// and treats anything the community registry does not know as internal
func (cl *classifier) internal(pluginID string) bool {
	if _, ok := coreNamespaces[pluginID]; ok {
		return true
	}
	if cl.internals[pluginID] {
		return true
	}
	return !cl.community[pluginID]
}

type systemShortcut struct {
	name  string
	label string
	key   string
	mods  []string
}

// systemShortcuts are OS level chords that no host command owns but that
// still collide with user bindings
var systemShortcuts = []systemShortcut{
	{"copy", "Copy", "C", []string{keys.ModifierMod}},
	{"cut", "Cut", "X", []string{keys.ModifierMod}},
	{"paste", "Paste", "V", []string{keys.ModifierMod}},
	{"paste-plain", "Paste as plain text", "V", []string{keys.ModifierMod, keys.ModifierShift}},
	{"select-all", "Select all", "A", []string{keys.ModifierMod}},
	{"undo", "Undo", "Z", []string{keys.ModifierMod}},
	{"redo", "Redo", "Z", []string{keys.ModifierMod, keys.ModifierShift}},
}

func systemRecords(p keys.Platform) []types.CommandRecord {
	out := make([]types.CommandRecord, 0, len(systemShortcuts)+1)
	for _, s := range systemShortcuts {
		b := types.HotkeyBinding{Modifiers: s.mods, Key: s.key}.Canonical(p)
		out = append(out, systemRecord(s.name, s.label, b))
	}
	if p != keys.PlatformMacOS {
		b := types.HotkeyBinding{Modifiers: []string{keys.ModifierMod}, Key: "Y"}.Canonical(p)
		out = append(out, systemRecord("redo-alt", "Redo", b))
	}
	return out
}

func systemRecord(name, label string, b types.HotkeyBinding) types.CommandRecord {
	return types.CommandRecord{
		ID:               types.SystemPluginID + ":" + name,
		DisplayName:      types.SystemPluginName + ": " + label,
		PluginID:         types.SystemPluginID,
		PluginName:       types.SystemPluginName,
		LocalCommandName: label,
		HotkeysAll:       []types.HotkeyBinding{b},
		HotkeysDefault:   []types.HotkeyBinding{b.Clone()},
		HotkeysCustom:    []types.HotkeyBinding{},
		IsSystem:         true,
	}
}
