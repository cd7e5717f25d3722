package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

func chord(key string, mods ...string) []types.HotkeyBinding {
	return []types.HotkeyBinding{{Modifiers: mods, Key: key}}
}

// exampleCommands is a small but realistic command set, including one
// deliberate conflict (Mod+Shift+F)
var exampleCommands = []commandEntry{
	{ID: "editor:toggle-bold", Name: "Toggle bold", Hotkeys: chord("B", "Mod")},
	{ID: "editor:toggle-italics", Name: "Toggle italics", Hotkeys: chord("I", "Mod")},
	{ID: "editor:toggle-code", Name: "Toggle code"},
	{ID: "editor:save-file", Name: "Save current file", Hotkeys: chord("S", "Mod")},
	{ID: "editor:toggle-fold", Name: "Toggle fold on the current line"},
	{ID: "editor:swap-line-up", Name: "Move line up", Hotkeys: chord("ArrowUp", "Mod", "Shift")},
	{ID: "editor:swap-line-down", Name: "Move line down", Hotkeys: chord("ArrowDown", "Mod", "Shift")},
	{ID: "app:open-settings", Name: "Open settings", Hotkeys: chord(",", "Mod")},
	{ID: "app:reload", Name: "Reload app without saving"},
	{ID: "command-palette:open", Name: "Open command palette", Hotkeys: chord("P", "Mod")},
	{ID: "switcher:open", Name: "Open quick switcher", Hotkeys: chord("O", "Mod")},
	{ID: "global-search:open", Name: "Search in all files", Hotkeys: chord("F", "Mod", "Shift")},
	{ID: "workspace:split-vertical", Name: "Split right"},
	{ID: "workspace:close", Name: "Close current tab", Hotkeys: chord("W", "Mod")},
	{ID: "daily-notes", Name: "Open today's daily note"},
	{ID: "graph:open", Name: "Open graph view", Hotkeys: chord("G", "Mod")},
	{ID: "dataview:dataview-force-refresh-views", Name: "Force refresh all views and blocks", Hotkeys: chord("F", "Mod", "Shift")},
	{ID: "obsidian-git:commit", Name: "Commit all changes"},
	{ID: "templater-obsidian:insert-templater", Name: "Open insert template modal", Hotkeys: chord("E", "Alt")},
}

var examplePlugins = pluginsFile{
	Internal: []host.Plugin{
		{ID: "global-search", Name: "Search", Enabled: true},
		{ID: "switcher", Name: "Quick switcher", Enabled: true},
		{ID: "command-palette", Name: "Command palette", Enabled: true},
		{ID: "daily-notes", Name: "Daily notes", Enabled: true},
		{ID: "graph", Name: "Graph view", Enabled: true},
	},
	Community: []host.Plugin{
		{ID: "dataview", Name: "Dataview", Enabled: true},
		{ID: "obsidian-git", Name: "Git", Enabled: true},
		{ID: "templater-obsidian", Name: "Templater", Enabled: true},
	},
}

// CreateExample writes an example vault into dir. Existing files are kept.
func CreateExample(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	files := map[string]any{
		CommandsFile: exampleCommands,
		PluginsFile:  examplePlugins,
		HotkeysFile:  map[string][]types.HotkeyBinding{},
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		data, err := json.MarshalIndent(content, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
